package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"bare command", []string{"stats"}, []string{"stats"}},
		{"config flags first", []string{"-backend", "memory", "-c", "cfg.json", "useradd", "-email", "a@b.com"}, []string{"useradd", "-email", "a@b.com"}},
		{"inline values", []string{"-backend=s3", "list", "-page", "2"}, []string{"list", "-page", "2"}},
		{"no command", []string{"-backend", "memory"}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommandArgs(tt.args))
		})
	}
}
