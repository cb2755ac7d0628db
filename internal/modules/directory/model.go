// README: Directory of platform participants and facilities. Users carry
// one or more of four roles; hubs are the intermediate drop-off points and
// lighthouses the final distribution points.
package directory

import (
	"justonemore/internal/types"
)

type Role string

const (
	RoleCook       Role = "cook"
	RoleDriver     Role = "driver"
	RoleHub        Role = "hub"
	RoleLighthouse Role = "lighthouse"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCook, RoleDriver, RoleHub, RoleLighthouse:
		return true
	}
	return false
}

// User may wear several roles at once; a cook who also drives is common.
type User struct {
	ID      types.ID
	Name    string
	Email   string
	Phone   string
	Roles   []Role
	Address string
	Coords  *types.Point
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

type Hub struct {
	ID      types.ID
	Name    string
	Address string
	Coords  *types.Point
}

type Lighthouse struct {
	ID      types.ID
	Name    string
	Address string
	Coords  *types.Point
}
