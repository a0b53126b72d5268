package domain

// Role is the coarse access level used to gate routes.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleB2B      Role = "b2b"
	RoleAdmin    Role = "admin"
)

// Identity is what the identity provider tells us about a signed-in user.
type Identity struct {
	UserID         string
	Email          string
	VerifiedEmails []string
	RoleClaim      string // publicMetadata.role, "" when absent
}

// Principal is the resolved, closed set of user kinds.
type Principal interface {
	Role() Role
	Subject() string
	principal()
}

type Customer struct {
	UserID string `json:"userId"`
}

type B2BUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// AdminSource records which evidence granted admin.
type AdminSource string

const (
	AdminByClaim     AdminSource = "claim"
	AdminByAllowList AdminSource = "allow_list"
	AdminByRoleStore AdminSource = "role_store"
)

type AdminUser struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Source AdminSource `json:"source"`
}

func (Customer) Role() Role  { return RoleCustomer }
func (B2BUser) Role() Role   { return RoleB2B }
func (AdminUser) Role() Role { return RoleAdmin }

func (c Customer) Subject() string  { return c.UserID }
func (b B2BUser) Subject() string   { return b.UserID }
func (a AdminUser) Subject() string { return a.UserID }

func (Customer) principal()  {}
func (B2BUser) principal()   {}
func (AdminUser) principal() {}

// Allows reports whether p may enter a route requiring min.
func Allows(p Principal, min Role) bool {
	if p == nil {
		return false
	}
	rank := map[Role]int{RoleCustomer: 0, RoleB2B: 1, RoleAdmin: 2}
	return rank[p.Role()] >= rank[min]
}
