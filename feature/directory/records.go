package directory

import (
	"fmt"
	"strconv"

	"hesiod53/core/reconcile"
	"hesiod53/feature/directory/models"
)

// Suffixes are the record name suffixes, relative to the Hesiod domain, owned by
// the directory. Published records ending in anything else are never touched.
var Suffixes = []string{"group.", "gid.", "passwd.", "uid.", "grplist.", "ssh."}

// Directory is the full set of users and groups of one run.
type Directory struct {
	Groups []*models.Group
	Users  []*models.User
}

// Records returns the record set describing d under domain.
// The result depends only on d, so unchanged input yields an identical set.
// Two records sharing a name are rejected with a ValidationError.
func (d *Directory) Records(domain string) (reconcile.RecordSet, error) {
	domain = reconcile.Canonical(domain)
	set := make(reconcile.RecordSet)
	names := make(map[string]string)

	add := func(r reconcile.Record) error {
		if value, ok := names[r.FQDN]; ok && value != r.Value {
			return models.Invalid(fmt.Sprintf("record %q", r.FQDN), "name is produced twice with different values")
		}
		names[r.FQDN] = r.Value
		set.Add(r)
		return nil
	}

	for _, g := range d.Groups {
		line, err := g.Line(d.Users)
		if err != nil {
			return nil, err
		}
		if err := add(reconcile.NewRecord(g.Name+".group."+domain, line)); err != nil {
			return nil, err
		}
		if err := add(reconcile.NewRecord(strconv.Itoa(g.GID)+".gid."+domain, line)); err != nil {
			return nil, err
		}
	}

	for _, u := range d.Users {
		for _, r := range userRecords(u, domain) {
			if err := add(r); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// userRecords returns the passwd, uid, grplist and ssh records of u.
func userRecords(u *models.User, domain string) []reconcile.Record {
	line := u.PasswdLine()
	records := []reconcile.Record{
		reconcile.NewRecord(u.Username+".passwd."+domain, line),
		reconcile.NewRecord(strconv.Itoa(u.UID)+".uid."+domain, line),
		reconcile.NewRecord(u.Username+".grplist."+domain, u.GroupList()),
	}

	if len(u.SSHKeys) == 0 {
		return records
	}

	records = append(records,
		reconcile.NewRecord(u.Username+".count.ssh."+domain, strconv.Itoa(len(u.SSHKeys))),
		reconcile.NewRecord(u.Username+".ssh."+domain, u.SSHKeys[0]),
	)
	for i, key := range u.SSHKeys {
		records = append(records, reconcile.NewRecord(u.Username+"."+strconv.Itoa(i)+".ssh."+domain, key))
	}
	return records
}
