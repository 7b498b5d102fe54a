package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Separator delimits the fields of passwd and group lines.
const Separator = ":"

// groupFields is the field count of a group line.
const groupFields = 4

// labelSeparator may not appear in names used as record labels.
const labelSeparator = "."

// Group is a UNIX group.
type Group struct {
	Name string
	GID  int
}

// NewGroup validates and returns a group.
func NewGroup(name string, gid int) (*Group, error) {
	entity := fmt.Sprintf("group %q", name)
	if name == "" {
		return nil, Invalid("group", "name must be provided")
	}
	if gid <= 0 {
		return nil, Invalid(entity, "gid must be a positive integer, got %d", gid)
	}
	if strings.Contains(name, labelSeparator) {
		return nil, Invalid(entity, "name must not contain %q", labelSeparator)
	}

	g := &Group{Name: name, GID: gid}
	if _, err := g.Line(nil); err != nil {
		return nil, err
	}
	return g, nil
}

// Equal reports whether both groups have the same name and gid.
func (g *Group) Equal(other *Group) bool {
	return other != nil && g.Name == other.Name && g.GID == other.GID
}

// Members returns the users that list g among their groups.
func (g *Group) Members(users []*User) []*User {
	var members []*User
	for _, u := range users {
		if u.InGroup(g) {
			members = append(members, u)
		}
	}
	return members
}

// Line renders the group line "name:x:gid:member1,member2" with sorted members.
func (g *Group) Line(users []*User) (string, error) {
	members := g.Members(users)
	names := make([]string, 0, len(members))
	for _, u := range members {
		names = append(names, u.Username)
	}
	sort.Strings(names)

	line := strings.Join([]string{g.Name, "x", strconv.Itoa(g.GID), strings.Join(names, ",")}, Separator)
	if n := len(strings.Split(line, Separator)); n != groupFields {
		return "", Invalid(fmt.Sprintf("group %q", g.Name), "contains %q (line has %d fields)", Separator, n)
	}
	return line, nil
}

func (g *Group) String() string {
	return fmt.Sprintf("Group(name=%s, gid=%d)", g.Name, g.GID)
}

// ParseGroupLine parses a group line. The member list is optional; a line with
// only three fields yields no members.
func ParseGroupLine(line string) (*Group, []string, error) {
	line = strings.ReplaceAll(line, `"`, "")
	parts := strings.Split(line, Separator)
	if len(parts) != groupFields && len(parts) != groupFields-1 {
		return nil, nil, Invalid("group line", "expected %d fields in %q", groupFields, line)
	}

	gid, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, nil, Invalid("group line", "gid %q is not a number", parts[2])
	}

	g, err := NewGroup(parts[0], gid)
	if err != nil {
		return nil, nil, err
	}

	var members []string
	if len(parts) == groupFields && parts[3] != "" {
		members = strings.Split(parts[3], ",")
	}
	return g, members, nil
}
