package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "conf.json", "-d", "vault.db"}, []string{"-c"}, []string{"-c", "conf.json"}},
		{"equals form", []string{"--config=alt.json", "-d", "vault.db"}, []string{"--config"}, []string{"--config=alt.json"}},
		{"unknown flags ignored", []string{"-x", "1", "--y=2", "positional"}, []string{"-c"}, []string{}},
		{"flag without value at end", []string{"-c"}, []string{"-c"}, []string{"-c"}},
		{"next token is a flag", []string{"-c", "-notvalue"}, []string{"-c"}, []string{"-c"}},
		{"equals value starting with dashes", []string{"--config=--weird.json"}, []string{"--config"}, []string{"--config=--weird.json"}},
		{"several allowed flags keep order", []string{"-d", "v.db", "-c", "c.json", "--other", "x"}, []string{"-c", "-d"}, []string{"-d", "v.db", "-c", "c.json"}},
		{"repeated flag", []string{"-c", "one.json", "-c", "two.json"}, []string{"-c"}, []string{"-c", "one.json", "-c", "two.json"}},
		{"empty args", []string{}, []string{"-c"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigFileFlag([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.yaml", ConfigFileFlag([]string{"-config", "/path/long.yaml", "-theme", "dark"}))
	assert.Equal(t, "/path/eq.json", ConfigFileFlag([]string{"--config=/path/eq.json"}))
	assert.Equal(t, "/path/2.json", ConfigFileFlag([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}
