package sshkeys

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// defaultLHS is the Hesiod left hand side used when the configuration has none.
const defaultLHS = ".ns"

// ErrNoDomain is returned when the Hesiod configuration has no rhs.
var ErrNoDomain = errors.New("hesiod domain could not be found, set rhs in the hesiod configuration")

// FindDomain reads the Hesiod domain (lhs + rhs) from a hesiod.conf file.
func FindDomain(path string) (string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domainFrom(cfg)
}

func domainFrom(cfg *ini.File) (string, error) {
	section := cfg.Section(ini.DefaultSection)

	lhs := strings.TrimSpace(section.Key("lhs").String())
	rhs := strings.TrimSpace(section.Key("rhs").String())
	if lhs == "" {
		lhs = defaultLHS
	}
	if rhs == "" {
		return "", ErrNoDomain
	}

	return strings.TrimPrefix(lhs+rhs, "."), nil
}
