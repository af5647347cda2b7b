package emulator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig(`
limit = 5000
verbose = true

[identity]
register = "q"
values = [10, 20]

[registers]
a = 3
z = -1
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(5000, cfg.Limit)
	assert.True(cfg.Verbose)
	assert.Equal("q", cfg.Identity.Register)
	assert.Equal([]int64{10, 20}, cfg.Identity.Values)
	assert.Equal(map[string]int64{"a": 3, "z": -1}, cfg.Registers)

	duet := NewDuet(cfg)
	assert.True(duet.Verbose)
}

func TestParseConfig_Default(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig("")
	assert.NoError(err)
	assert.Equal(DefaultConfig(), cfg)

	cfg, err = ParseConfig("limit = 10")
	assert.NoError(err)
	assert.Equal("p", cfg.Identity.Register)
	assert.Equal([]int64{0, 1}, cfg.Identity.Values)
	assert.Equal(10, cfg.Limit)
}

func TestParseConfig_Error(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		err  error
	}){
		{"register", "[registers]\nab = 1", ErrConfigRegister},
		{"register_upper", "[registers]\nA = 1", ErrConfigRegister},
		{"identity_register", "[identity]\nregister = \"7\"", ErrConfigRegister},
		{"identity_count", "[identity]\nvalues = [1, 2, 3]", ErrConfigIdentity},
		{"limit", "limit = -1", ErrConfigLimit},
	}

	for _, entry := range table {
		_, err := ParseConfig(entry.text)
		assert.ErrorIs(err, entry.err, entry.name)
	}

	_, err := ParseConfig("stack = 4")
	var key ErrConfigKey
	if assert.True(errors.As(err, &key)) {
		assert.Equal(ErrConfigKey("stack"), key)
	}

	_, err = ParseConfig("limit = ")
	assert.Error(err)
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "duet.toml")
	err := os.WriteFile(path, []byte("[registers]\nb = 99\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(int64(99), cfg.Registers["b"])

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestConfig_Reset(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Identity.Values = []int64{0}

	duet := NewDuet(cfg)
	duet.Program = assemble(t, []string{"rcv a"})
	assert.ErrorIs(duet.Reset(), ErrConfigIdentity)

	solo := NewSolo(cfg)
	solo.Program = assemble(t, []string{"rcv a"})
	assert.ErrorIs(solo.Reset(), ErrConfigIdentity)
}
