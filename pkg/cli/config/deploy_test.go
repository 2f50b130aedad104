package config_test

import (
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/qibergames/vercel-action/pkg/cli/config"
)

func TestDeploy_Domains(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "preview.example.com", want: []string{"preview.example.com"}},
		{
			name:  "multiple keeps order",
			input: "b.example.com\na.example.com",
			want:  []string{"b.example.com", "a.example.com"},
		},
		{
			name:  "blank lines and spaces dropped",
			input: "\n  a.example.com  \n\n\tb.example.com\n",
			want:  []string{"a.example.com", "b.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Deploy{AliasDomains: tt.input}
			gt.Value(t, cfg.Domains()).Equal(tt.want)
		})
	}
}

func TestDeploy_Dir(t *testing.T) {
	t.Run("explicit directory", func(t *testing.T) {
		cfg := config.Deploy{WorkingDirectory: "/work/site"}
		dir, err := cfg.Dir()
		gt.NoError(t, err)
		gt.Value(t, dir).Equal("/work/site")
	})

	t.Run("defaults to current directory", func(t *testing.T) {
		wd, err := os.Getwd()
		gt.NoError(t, err)

		cfg := config.Deploy{}
		dir, err := cfg.Dir()
		gt.NoError(t, err)
		gt.Value(t, dir).Equal(wd)
	})
}
