package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultShell is the login shell of users that do not set one.
const DefaultShell = "/bin/bash"

// passwdFields is the field count of a passwd line.
const passwdFields = 7

// User is a UNIX account. The first group is the primary group.
type User struct {
	FullName string
	Username string
	UID      int
	Groups   []*Group
	SSHKeys  []string
	HomeDir  string
	Shell    string
}

// NewUser validates and returns a user. An empty homeDir defaults to
// /home/{username} and an empty shell to DefaultShell.
func NewUser(fullName, username string, uid int, groups []*Group, sshKeys []string, homeDir, shell string) (*User, error) {
	entity := fmt.Sprintf("user %q", username)
	if username == "" {
		return nil, Invalid("user", "username must be provided")
	}
	if strings.Contains(username, labelSeparator) {
		return nil, Invalid(entity, "username must not contain %q", labelSeparator)
	}
	if uid <= 0 {
		return nil, Invalid(entity, "uid must be a positive integer, got %d", uid)
	}
	if len(groups) == 0 {
		return nil, Invalid(entity, "at least one group is required")
	}
	for _, g := range groups {
		if g == nil {
			return nil, Invalid(entity, "nil group reference")
		}
	}
	if homeDir == "" {
		homeDir = "/home/" + username
	}
	if shell == "" {
		shell = DefaultShell
	}

	u := &User{
		FullName: fullName,
		Username: username,
		UID:      uid,
		Groups:   append([]*Group(nil), groups...),
		SSHKeys:  append([]string(nil), sshKeys...),
		HomeDir:  homeDir,
		Shell:    shell,
	}

	if n := len(strings.Split(u.PasswdLine(), Separator)); n != passwdFields {
		return nil, Invalid(entity, "contains %q (line has %d fields)", Separator, n)
	}
	return u, nil
}

// PrimaryGroup returns the first group of the user.
func (u *User) PrimaryGroup() *Group {
	if len(u.Groups) == 0 {
		return nil
	}
	return u.Groups[0]
}

// InGroup reports whether g is one of the user's groups.
func (u *User) InGroup(g *Group) bool {
	for _, ug := range u.Groups {
		if ug.Equal(g) {
			return true
		}
	}
	return false
}

// Gecos renders the GECOS field.
func (u *User) Gecos() string {
	return u.FullName + ",,,,"
}

// PasswdLine renders "username:x:uid:gid:gecos:homedir:shell".
func (u *User) PasswdLine() string {
	gid := ""
	if g := u.PrimaryGroup(); g != nil {
		gid = strconv.Itoa(g.GID)
	}
	return strings.Join([]string{
		u.Username, "x", strconv.Itoa(u.UID), gid, u.Gecos(), u.HomeDir, u.Shell,
	}, Separator)
}

// GroupList renders "name:gid" pairs of every group, sorted by gid.
func (u *User) GroupList() string {
	groups := append([]*Group(nil), u.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].GID < groups[j].GID
	})

	pairs := make([]string, 0, len(groups))
	for _, g := range groups {
		pairs = append(pairs, g.Name+Separator+strconv.Itoa(g.GID))
	}
	return strings.Join(pairs, Separator)
}

func (u *User) String() string {
	return fmt.Sprintf("User(name=%s, username=%s, uid=%d, groups=%v, ssh_keys=%d, homedir=%s, shell=%s)",
		u.FullName, u.Username, u.UID, u.Groups, len(u.SSHKeys), u.HomeDir, u.Shell)
}

// PasswdEntry is a user parsed back from a published passwd line.
type PasswdEntry struct {
	Username string
	UID      int
	GID      int
	FullName string
	HomeDir  string
	Shell    string
}

// ParsePasswdLine parses a passwd line.
func ParsePasswdLine(line string) (*PasswdEntry, error) {
	line = strings.ReplaceAll(line, `"`, "")
	parts := strings.Split(line, Separator)
	if len(parts) != passwdFields {
		return nil, Invalid("passwd line", "expected %d fields in %q", passwdFields, line)
	}

	uid, err := strconv.Atoi(parts[2])
	if err != nil || uid <= 0 {
		return nil, Invalid("passwd line", "uid %q is not a positive number", parts[2])
	}
	gid, err := strconv.Atoi(parts[3])
	if err != nil || gid <= 0 {
		return nil, Invalid("passwd line", "gid %q is not a positive number", parts[3])
	}
	if parts[0] == "" {
		return nil, Invalid("passwd line", "empty username in %q", line)
	}

	return &PasswdEntry{
		Username: parts[0],
		UID:      uid,
		GID:      gid,
		FullName: strings.SplitN(parts[4], ",", 2)[0],
		HomeDir:  parts[5],
		Shell:    parts[6],
	}, nil
}
