package goast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

const sampleSource = `// Package users manages user records.
package users

// MaxUsers bounds the user table.
const MaxUsers = 100

var registry map[string]*User

// User is one stored user record.
type User struct {
	ID   string
	Name string
}

// Store abstracts user persistence.
type Store interface {
	Get(id string) (*User, error)
}

// GetUser fetches a user by id.
func GetUser(id string) (*User, error) {
	return registry[id], nil
}

// Rename updates the user's display name.
func (u *User) Rename(name string) error {
	u.Name = name
	return nil
}
`

func writeGoFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0700))
	require.NoError(t, os.WriteFile(full, []byte(content), 0600))
}

func TestProvider_Symbols(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "users/users.go", sampleSource)

	p := New()
	symbols, err := p.Symbols(context.Background(), root, []string{"users/users.go"})
	require.NoError(t, err)

	byName := make(map[string]symbol.Symbol)
	for _, s := range symbols {
		byName[s.NamePath] = s
	}

	fn, ok := byName["GetUser"]
	require.True(t, ok, "GetUser should be reported")
	assert.Equal(t, symbol.KindFunction, fn.Kind)
	assert.Equal(t, "(id: string): (*User, error)", fn.Signature)
	assert.Equal(t, "GetUser fetches a user by id.", fn.Documentation)
	assert.Equal(t, "users/users.go", fn.Location.Path)
	assert.Greater(t, fn.Location.EndLine, fn.Location.StartLine)

	method, ok := byName["User.Rename"]
	require.True(t, ok, "receiver methods should use Type.Name paths")
	assert.Equal(t, symbol.KindMethod, method.Kind)
	assert.Equal(t, "Rename", method.Name)
	assert.Equal(t, "(name: string): error", method.Signature)

	user, ok := byName["User"]
	require.True(t, ok)
	assert.Equal(t, symbol.KindClass, user.Kind)
	assert.Equal(t, "User is one stored user record.", user.Documentation)

	store, ok := byName["Store"]
	require.True(t, ok)
	assert.Equal(t, symbol.KindInterface, store.Kind)

	maxUsers, ok := byName["MaxUsers"]
	require.True(t, ok)
	assert.Equal(t, symbol.KindConstant, maxUsers.Kind)

	reg, ok := byName["registry"]
	require.True(t, ok)
	assert.Equal(t, symbol.KindVariable, reg.Kind)
}

func TestProvider_SkipsNonGoAndBroken(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "ok.go", "package ok\n\nfunc Fine() {}\n")
	writeGoFile(t, root, "broken.go", "package {{{\n")
	writeGoFile(t, root, "notes.md", "# not go\n")

	p := New()
	symbols, err := p.Symbols(context.Background(), root, []string{"ok.go", "broken.go", "notes.md", "missing.go"})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Fine", symbols[0].Name)
	assert.Equal(t, "()", symbols[0].Signature)
}

func TestProvider_ContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "ok.go", "package ok\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New()
	_, err := p.Symbols(ctx, root, []string{"ok.go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignatureString_Shapes(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "sig.go", `package sig

func NoArgs() {}

func Multi(a, b int, c string) (int, error) { return 0, nil }

func Unnamed(int) {}

func Generic[T any](v T) T { return v }
`)

	p := New()
	symbols, err := p.Symbols(context.Background(), root, []string{"sig.go"})
	require.NoError(t, err)

	sigs := make(map[string]string)
	for _, s := range symbols {
		sigs[s.Name] = s.Signature
	}

	assert.Equal(t, "()", sigs["NoArgs"])
	assert.Equal(t, "(a: int, b: int, c: string): (int, error)", sigs["Multi"])
	assert.Equal(t, "(_: int)", sigs["Unnamed"])
	assert.Equal(t, "(v: T): T", sigs["Generic"])
}
