package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// LoadMakeConf reads portage make.conf files and returns their assignments.
// Later files override earlier ones; a directory is read file by file in
// name order.
//
// Parsing rules:
// - Lines starting with '#' and empty lines are ignored.
// - Assignments are KEY=VALUE, optionally prefixed with "export".
// - VALUE is unquoted shell-style and may span lines inside double quotes.
// - ${KEY} and $KEY references to earlier keys are expanded.
func LoadMakeConf(paths []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range paths {
		files, err := makeConfFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := parseMakeConf(f, out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func makeConfFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot stat make.conf %s: %w", p, err)
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	des, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("cannot list make.conf directory %s: %w", p, err)
	}
	var files []string
	for _, de := range des {
		if !de.IsDir() && !strings.HasPrefix(de.Name(), ".") {
			files = append(files, filepath.Join(p, de.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseMakeConf(path string, out map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open make.conf %s: %w", path, err)
	}
	defer f.Close()

	var (
		key     string
		pending strings.Builder
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if key == "" {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			line = strings.TrimPrefix(line, "export ")
			i := strings.Index(line, "=")
			if i <= 0 {
				continue
			}
			key = strings.TrimSpace(line[:i])
			pending.Reset()
			line = line[i+1:]
		}
		pending.WriteString(line)
		pending.WriteByte('\n')
		if strings.Count(pending.String(), `"`)%2 == 1 {
			continue
		}
		words, err := shlex.Split(pending.String())
		if err == nil {
			out[key] = os.Expand(strings.Join(words, " "), func(k string) string { return out[k] })
		}
		key = ""
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read make.conf %s: %w", path, err)
	}
	return nil
}

// Value returns the effective value for key, using process environment
// variables first and falling back to the make.conf files of cfg.
func (cfg *Config) Value(key string) (string, error) {
	vals, err := cfg.Values(key)
	if err != nil {
		return "", err
	}
	return vals[key], nil
}

// Values resolves several keys like Value, reading make.conf at most once.
func (cfg *Config) Values(keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	var mc map[string]string
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			out[k] = v
			continue
		}
		if mc == nil {
			var err error
			if mc, err = LoadMakeConf(cfg.MakeConf); err != nil {
				return nil, err
			}
		}
		out[k] = mc[k]
	}
	return out, nil
}
