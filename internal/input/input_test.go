package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	content := `# upstream packages
https://github.com/desihub/desiutil

  desispec  
#https://github.com/desihub/ignored
acme/tool
`
	ids, err := Read(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/desihub/desiutil", "desispec", "acme/tool"}, ids)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"desispec", "redrock", "https://github.com/acme/tool"},
		SplitList("desispec, redrock,,https://github.com/acme/tool,"))
	assert.Empty(t, SplitList(" , "))
}

func TestIdentifiers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "repos.txt")
	require.NoError(t, os.WriteFile(file, []byte("desispec\n# comment\nredrock\n"), 0o600))
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n\n"), 0o600))

	testCases := []struct {
		name        string
		path        string
		list        string
		expected    []string
		expectError bool
	}{
		{name: "file takes precedence", path: file, list: "specter", expected: []string{"desispec", "redrock"}},
		{name: "comma separated list", list: "specter,desimodel", expected: []string{"specter", "desimodel"}},
		{name: "default list", expected: DefaultRepositories},
		{name: "missing file", path: filepath.Join(dir, "missing.txt"), expectError: true},
		{name: "file without identifiers", path: empty, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := Identifiers(tc.path, tc.list)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids)
		})
	}
}
