// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the source tree. It fails when
// the code uses a key the primary locale lacks, or when another locale is
// missing a key of the primary one. Keys only the locale knows about are
// reported as orphans; some are built at runtime ("column."+name).
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// keyPattern matches i18n.T("key") calls and msgID: "key" fields.
var keyPattern = regexp.MustCompile(`i18n\.T\("([^"]+)"|msgID:\s*"([^"]+)"`)

// report is the outcome of one run.
type report struct {
	Used     []string
	Unknown  []string            // used in code, absent from the primary locale
	Missing  map[string][]string // locale file -> keys of the primary it lacks
	Orphaned []string
}

func (r report) failed() bool {
	if len(r.Unknown) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		log.Fatal("i18n linter failed", "err", err)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, dir string) (report, error) {
	r := report{Missing: map[string][]string{}}

	used, err := findUsedKeys(root)
	if err != nil {
		return r, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return r, fmt.Errorf("load primary locale: %w", err)
	}

	for k := range used {
		r.Used = append(r.Used, k)
		if _, ok := primary[k]; !ok {
			r.Unknown = append(r.Unknown, k)
		}
	}
	for k := range primary {
		if _, ok := used[k]; !ok {
			r.Orphaned = append(r.Orphaned, k)
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return r, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return r, fmt.Errorf("load %s: %w", file, err)
		}
		var missing []string
		for k := range primary {
			if _, ok := keys[k]; !ok {
				missing = append(missing, k)
			}
		}
		sort.Strings(missing)
		r.Missing[filepath.Base(file)] = missing
	}

	sort.Strings(r.Used)
	sort.Strings(r.Unknown)
	sort.Strings(r.Orphaned)
	return r, nil
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "%d translation keys used in source code\n", len(r.Used))
	for _, k := range r.Unknown {
		fmt.Fprintf(w, "  unknown: %s\n", k)
	}
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range r.Missing[f] {
			fmt.Fprintf(w, "  missing in %s: %s\n", f, k)
		}
	}
	for _, k := range r.Orphaned {
		fmt.Fprintf(w, "  orphaned: %s\n", k)
	}
	if r.failed() {
		fmt.Fprintln(w, "locale files need attention")
		return
	}
	fmt.Fprintln(w, "all translation files are consistent")
}

// findUsedKeys scans non-test .go files below root, skipping tools/ and
// any directory starting with "_" or ".".
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyPattern.FindAllStringSubmatch(string(content), -1) {
			if m[1] != "" {
				keys[m[1]] = struct{}{}
			} else if m[2] != "" {
				keys[m[2]] = struct{}{}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML locale and returns its keys flattened with
// dots.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	m, ok := node.(map[string]interface{})
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		flattenYAML(k, v, keys)
	}
}
