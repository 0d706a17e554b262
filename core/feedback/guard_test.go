package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/maoni/core/user"
)

func TestCanMutate(t *testing.T) {
	fb := Feedback{ID: 1, StudentID: 7}

	tests := []struct {
		name  string
		ident user.Identity
		want  bool
	}{
		{name: "owning student", ident: user.Identity{ID: 7, Role: user.RoleStudent}, want: true},
		{name: "other student", ident: user.Identity{ID: 8, Role: user.RoleStudent}, want: false},
		{name: "admin", ident: user.Identity{ID: 99, Role: user.RoleAdmin}, want: true},
		{name: "unknown role", ident: user.Identity{ID: 7, Role: "teacher"}, want: false},
		{name: "empty identity", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.ident, fb))
		})
	}
}
