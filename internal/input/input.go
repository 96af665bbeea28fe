// Package input collects the repository identifiers to report on.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultRepositories is used when neither a file nor a list is given.
var DefaultRepositories = []string{
	"https://github.com/desihub/desiutil",
	"https://github.com/desihub/desispec",
	"https://github.com/desihub/desitarget",
	"https://github.com/desihub/redrock",
	"https://github.com/desihub/redrock-templates",
	"https://github.com/desihub/fiberassign",
	"https://github.com/desihub/desisurvey",
	"https://github.com/desihub/desimodel",
	"https://github.com/desihub/specter",
	"https://github.com/desihub/gpu_specter",
	"https://github.com/desihub/specex",
	"https://github.com/desihub/specsim",
	"https://github.com/desihub/desisim",
	"https://github.com/desihub/surveysim",
	"https://github.com/desihub/prospect",
	"https://github.com/desihub/desimeter",
	"https://github.com/desihub/simqso",
	"https://github.com/desihub/speclite",
	"https://github.com/desihub/QuasarNP",
	"https://github.com/desihub/specprod-db",
	"https://github.com/desihub/fastspecfit",
}

// Identifiers returns the identifiers from path if set, otherwise from the
// comma separated list, otherwise DefaultRepositories.
func Identifiers(path, list string) ([]string, error) {
	var ids []string
	switch {
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		if ids, err = Read(f); err != nil {
			return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
		}
	case list != "":
		ids = SplitList(list)
	default:
		ids = append([]string(nil), DefaultRepositories...)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no repository identifiers given")
	}
	return ids, nil
}

// Read returns the non-blank lines of r that do not start with '#'.
func Read(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, scanner.Err()
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(list string) []string {
	var ids []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}
