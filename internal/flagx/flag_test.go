package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-a", "http://h:1", "-x", "y"},
			names: []string{"a"},
			want:  []string{"-a", "http://h:1"},
		},
		{
			name:  "double dash with equals",
			args:  []string{"--m=inline", "-a", "x"},
			names: []string{"m"},
			want:  []string{"--m=inline"},
		},
		{
			name:  "names given with dashes are normalised",
			args:  []string{"-t", "5s"},
			names: []string{"-t"},
			want:  []string{"-t", "5s"},
		},
		{
			name:  "positional arguments dropped",
			args:  []string{"hello", "-a", "h", "world"},
			names: []string{"a"},
			want:  []string{"-a", "h"},
		},
		{
			name:  "flag at end without value",
			args:  []string{"-a"},
			names: []string{"a"},
			want:  []string{"-a"},
		},
		{
			name:  "next token is a flag",
			args:  []string{"-a", "-m", "none"},
			names: []string{"a", "m"},
			want:  []string{"-a", "-m", "none"},
		},
		{
			name:  "unknown only",
			args:  []string{"-z", "1", "--q=2"},
			names: []string{"a"},
			want:  []string{},
		},
		{
			name:  "repeated flag keeps order",
			args:  []string{"-w", "80", "-w", "100"},
			names: []string{"w"},
			want:  []string{"-w", "80", "-w", "100"},
		},
		{
			name:  "empty",
			args:  nil,
			names: []string{"a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/a.json", ConfigPath([]string{"-c", "/etc/a.json"}))
	assert.Equal(t, "/etc/b.json", ConfigPath([]string{"-a", "x", "-config", "/etc/b.json"}))
	assert.Equal(t, "/etc/c.json", ConfigPath([]string{"--config=/etc/c.json"}))
	assert.Equal(t, "2.json", ConfigPath([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigPath([]string{"-a", "x"}))
}
