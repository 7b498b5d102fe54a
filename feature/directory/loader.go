package directory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hesiod53/feature/directory/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML directory definition.
type Definition struct {
	Route53Zone  string            `yaml:"route53_zone" validate:"required"`
	HesiodDomain string            `yaml:"hesiod_domain" validate:"required"`
	Groups       []GroupDefinition `yaml:"groups" validate:"dive"`
	Users        []UserDefinition  `yaml:"users" validate:"dive"`
}

// GroupDefinition declares one group.
type GroupDefinition struct {
	Name string `yaml:"name" validate:"required"`
	GID  int    `yaml:"gid" validate:"required,gt=0"`
}

// UserDefinition declares one user. Groups reference group names; the first is
// the primary group.
type UserDefinition struct {
	Name     string   `yaml:"name"`
	Username string   `yaml:"username" validate:"required"`
	UID      int      `yaml:"uid" validate:"required,gt=0"`
	Groups   []string `yaml:"groups" validate:"min=1,dive,required"`
	SSHKeys  []string `yaml:"ssh_keys" validate:"dive,required"`
	HomeDir  string   `yaml:"homedir"`
	Shell    string   `yaml:"shell"`
}

// Source is a loaded and validated definition.
type Source struct {
	// Zone is the hosted zone holding the records.
	Zone string

	// Domain is the Hesiod domain the records are published under.
	Domain string

	// Directory holds the validated users and groups.
	Directory *Directory
}

var validate = validator.New()

// Load reads and validates the definition file at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML definition. Every failure is a
// *models.ValidationError.
func Parse(data []byte) (*Source, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, models.Invalid("definition", "%v", err)
	}

	if err := validate.Struct(&def); err != nil {
		return nil, structError(err)
	}

	dir, err := Build(def)
	if err != nil {
		return nil, err
	}

	return &Source{
		Zone:      def.Route53Zone,
		Domain:    def.HesiodDomain,
		Directory: dir,
	}, nil
}

// Build constructs the directory from a decoded definition and enforces the
// uniqueness of group names, gids, usernames and uids. Names are compared
// case-insensitively, like the record names they end up in.
func Build(def Definition) (*Directory, error) {
	dir := &Directory{}

	byName := make(map[string]*models.Group, len(def.Groups))
	byGID := make(map[int]*models.Group, len(def.Groups))
	for _, gd := range def.Groups {
		g, err := models.NewGroup(gd.Name, gd.GID)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(g.Name)
		if _, ok := byName[key]; ok {
			return nil, models.Invalid(fmt.Sprintf("group %q", g.Name), "group name is not unique")
		}
		if other, ok := byGID[g.GID]; ok {
			return nil, models.Invalid(fmt.Sprintf("group %q", g.Name), "gid %d is already used by group %q", g.GID, other.Name)
		}
		byName[key] = g
		byGID[g.GID] = g
		dir.Groups = append(dir.Groups, g)
	}

	byUsername := make(map[string]struct{}, len(def.Users))
	byUID := make(map[int]string, len(def.Users))
	for _, ud := range def.Users {
		entity := fmt.Sprintf("user %q", ud.Username)

		groups := make([]*models.Group, 0, len(ud.Groups))
		for _, name := range ud.Groups {
			g, ok := byName[strings.ToLower(name)]
			if !ok {
				return nil, models.Invalid(entity, "no such group: %s", name)
			}
			groups = append(groups, g)
		}

		u, err := models.NewUser(ud.Name, ud.Username, ud.UID, groups, ud.SSHKeys, ud.HomeDir, ud.Shell)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(u.Username)
		if _, ok := byUsername[key]; ok {
			return nil, models.Invalid(entity, "username is not unique")
		}
		if other, ok := byUID[u.UID]; ok {
			return nil, models.Invalid(entity, "uid %d is already used by user %q", u.UID, other)
		}
		byUsername[key] = struct{}{}
		byUID[u.UID] = u.Username
		dir.Users = append(dir.Users, u)
	}

	return dir, nil
}

// structError converts validator failures into a ValidationError.
func structError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.Invalid("definition", "%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return models.Invalid("definition", "%s", strings.Join(msgs, "; "))
}
