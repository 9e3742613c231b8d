package acl

// Role names match the values stored in the roles table.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	// ActionManage implies every other action on the resource.
	ActionManage Action = "manage"
)

type Resource string

const (
	ResourceOrder    Resource = "order"
	ResourceProduct  Resource = "product"
	ResourceCategory Resource = "category"
	ResourceBlog     Resource = "blog"
	ResourceUser     Resource = "user"
)

// Actor is the authenticated identity making a request. It is derived
// from the access token per request and never persisted here.
type Actor struct {
	ID    int64
	Roles []Role
}

type grantTable map[Role][]Action

// Guard answers "may this actor do this action on this resource type".
// Grant tables are fixed at construction; lookups never mutate them.
type Guard struct {
	grants map[Resource]grantTable
}

// NewGuard builds the guard with the storefront grant tables.
func NewGuard() *Guard {
	return &Guard{
		grants: map[Resource]grantTable{
			ResourceOrder: {
				RoleAdmin: {ActionManage},
				RoleUser:  {ActionCreate, ActionRead, ActionList},
			},
			ResourceProduct: {
				RoleAdmin: {ActionManage},
				RoleUser:  {ActionRead, ActionList},
			},
			ResourceCategory: {
				RoleAdmin: {ActionManage},
				RoleUser:  {ActionRead, ActionList},
			},
			ResourceBlog: {
				RoleAdmin: {ActionManage},
				RoleUser:  {ActionCreate, ActionRead, ActionList},
			},
			ResourceUser: {
				RoleAdmin: {ActionManage},
				RoleUser:  {ActionRead, ActionUpdate},
			},
		},
	}
}

// CanDo reports whether the actor holds a role granting action (or
// Manage) on the resource. A nil or role-less actor is always denied.
func (g *Guard) CanDo(actor *Actor, action Action, res Resource) bool {
	if actor == nil {
		return false
	}
	table, ok := g.grants[res]
	if !ok {
		return false
	}
	for _, role := range actor.Roles {
		for _, granted := range table[role] {
			if granted == action || granted == ActionManage {
				return true
			}
		}
	}
	return false
}
