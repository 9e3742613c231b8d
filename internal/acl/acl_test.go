package acl

import "testing"

func TestCanDoGrants(t *testing.T) {
	guard := NewGuard()

	admin := &Actor{ID: 1, Roles: []Role{RoleAdmin}}
	user := &Actor{ID: 2, Roles: []Role{RoleUser}}

	tests := []struct {
		name   string
		actor  *Actor
		action Action
		res    Resource
		want   bool
	}{
		{"user creates order", user, ActionCreate, ResourceOrder, true},
		{"user reads order", user, ActionRead, ResourceOrder, true},
		{"user lists orders", user, ActionList, ResourceOrder, true},
		{"user updates order", user, ActionUpdate, ResourceOrder, false},
		{"user deletes order", user, ActionDelete, ResourceOrder, false},
		{"user creates product", user, ActionCreate, ResourceProduct, false},
		{"user reads product", user, ActionRead, ResourceProduct, true},
		{"user creates blog", user, ActionCreate, ResourceBlog, true},
		{"user deletes blog", user, ActionDelete, ResourceBlog, false},
		{"admin manage implies delete", admin, ActionDelete, ResourceOrder, true},
		{"admin manage implies update", admin, ActionUpdate, ResourceProduct, true},
		{"admin manage implies create", admin, ActionCreate, ResourceCategory, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guard.CanDo(tt.actor, tt.action, tt.res); got != tt.want {
				t.Errorf("CanDo(%v, %s, %s) = %v, want %v", tt.actor.Roles, tt.action, tt.res, got, tt.want)
			}
		})
	}
}

func TestCanDoDeniesByDefault(t *testing.T) {
	guard := NewGuard()

	if guard.CanDo(nil, ActionRead, ResourceOrder) {
		t.Error("nil actor must be denied")
	}
	if guard.CanDo(&Actor{ID: 3}, ActionRead, ResourceOrder) {
		t.Error("actor without roles must be denied")
	}
	unknown := &Actor{ID: 4, Roles: []Role{Role("merchant")}}
	if guard.CanDo(unknown, ActionRead, ResourceOrder) {
		t.Error("unknown role must be denied")
	}
	if guard.CanDo(&Actor{ID: 5, Roles: []Role{RoleAdmin}}, ActionRead, Resource("warehouse")) {
		t.Error("unknown resource must be denied")
	}
}
