package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	serverFlags  = []string{"-a", "-b", "-f", "-g", "-d", "-s", "-t", "-r", "-l", "-e"}
	useraddFlags = []string{"-u", "-m"}
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server sees its own flags, not useradd's",
			args:    []string{"-a", ":9090", "-u", "alice", "-b", "relational", "-m", "a@x.com"},
			allowed: serverFlags,
			want:    []string{"-a", ":9090", "-b", "relational"},
		},
		{
			name:    "useradd sees its own flags, not the server's",
			args:    []string{"-a", ":9090", "-u", "alice", "-b", "relational", "-m", "a@x.com"},
			allowed: useraddFlags,
			want:    []string{"-u", "alice", "-m", "a@x.com"},
		},
		{
			name:    "dsn in equals form keeps its own equals signs",
			args:    []string{"-d=postgres://u:p@db/notes?sslmode=disable", "-c", "conf.json"},
			allowed: serverFlags,
			want:    []string{"-d=postgres://u:p@db/notes?sslmode=disable"},
		},
		{
			name:    "config flag is left for ConfigPath",
			args:    []string{"-c", "conf.json", "-l", "debug"},
			allowed: serverFlags,
			want:    []string{"-l", "debug"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-u", "alice", "-m"},
			allowed: useraddFlags,
			want:    []string{"-u", "alice", "-m"},
		},
		{
			name:    "dash-prefixed token is not taken as a value",
			args:    []string{"-u", "-m", "a@x.com"},
			allowed: useraddFlags,
			want:    []string{"-u", "-m", "a@x.com"},
		},
		{
			name:    "repeated flag kept in order so the last one wins on parse",
			args:    []string{"-b", "memory", "-b", "file"},
			allowed: serverFlags,
			want:    []string{"-b", "memory", "-b", "file"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"serve", "-a", ":8080", "extra"},
			allowed: serverFlags,
			want:    []string{"-a", ":8080"},
		},
		{
			name:    "nothing to keep",
			args:    []string{},
			allowed: useraddFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "server.json", ConfigPath([]string{"-a", ":5000", "-c", "server.json", "-d", "notes.db"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-u", "alice", "-config=b.json"}))
	assert.Equal(t, "second.json", ConfigPath([]string{"-c", "first.json", "-config", "second.json"}))
	assert.Empty(t, ConfigPath([]string{"-c"}))
	assert.Empty(t, ConfigPath([]string{"-u", "alice", "-m", "a@x.com"}))
	assert.Empty(t, ConfigPath(nil))
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"useradd", "-u", "alice", "-c", "/etc/smartnotes.json"}
	assert.Equal(t, "/etc/smartnotes.json", JsonConfigFlags())

	os.Args = []string{"server", "-a", ":8080", "-b", "memory"}
	assert.Empty(t, JsonConfigFlags())
}
