package dataloader

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"smartspec-scenariogen/internal/scenario/errs"
)

var (
	sectionPattern = regexp.MustCompile(`^\s*\[\s*(.+?)\s*\]\s*$`)
	optionPattern  = regexp.MustCompile(`^\s*(.+?)\s*=\s*(.+?)\s*$`)
)

// Config is the INI-like configuration format of spec.md §6: sections
// in brackets, key=value lines, grounded on ConfigLoader.hpp's regex
// parser. Lines outside any [section] fall under "others".
type Config struct {
	sections map[string]map[string]string
}

func LoadConfig(fname string) (*Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errs.IOError(err, "opening config file %q", fname)
	}
	defer f.Close()

	cfg := &Config{sections: make(map[string]map[string]string)}
	section := "others"
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			if cfg.sections[section] == nil {
				cfg.sections[section] = make(map[string]string)
			}
			cfg.sections[section][m[1]] = m[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.IOError(err, "reading config file %q", fname)
	}
	return cfg, nil
}

// Get returns section.option, failing with a ConfigError if missing.
func (c *Config) Get(section, option string) (string, error) {
	s, ok := c.sections[section]
	if !ok {
		return "", errs.ConfigError("section %q not found", section)
	}
	v, ok := s[option]
	if !ok {
		return "", errs.ConfigError("section.option %q.%q not found", section, option)
	}
	return v, nil
}

// GetOr returns section.option, or def if either is missing.
func (c *Config) GetOr(section, option, def string) string {
	s, ok := c.sections[section]
	if !ok {
		return def
	}
	v, ok := s[option]
	if !ok {
		return def
	}
	return v
}

func (c *Config) GetIntOr(section, option string, def int) int {
	v := c.GetOr(section, option, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (c *Config) HasSectionOption(section, option string) bool {
	s, ok := c.sections[section]
	if !ok {
		return false
	}
	_, ok = s[option]
	return ok
}

// IsNone reports whether a filepaths value is the sentinel "none".
func IsNone(v string) bool { return strings.EqualFold(v, "none") }
