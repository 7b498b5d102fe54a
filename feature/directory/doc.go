// Package directory projects the declared users and groups into Hesiod TXT records.
//
// # Records
//
// For every group:
//
//	{name}.group.{domain}   group line
//	{gid}.gid.{domain}      group line
//
// For every user:
//
//	{username}.passwd.{domain}      passwd line
//	{uid}.uid.{domain}              passwd line
//	{username}.grplist.{domain}     name:gid pairs sorted by gid
//	{username}.count.ssh.{domain}   number of SSH keys      (only with keys)
//	{username}.ssh.{domain}         first SSH key           (only with keys)
//	{username}.{i}.ssh.{domain}     SSH key i               (only with keys)
//
// The single-key {username}.ssh record is kept for consumers that predate
// multiple key support.
//
// # Definition file
//
// Load reads the YAML directory definition:
//
//	route53_zone: example.com
//	hesiod_domain: hesiod.example.com
//	groups:
//	  - name: users
//	    gid: 100
//	users:
//	  - name: Alice Liddell
//	    username: alice
//	    uid: 1000
//	    groups: [users]
//	    ssh_keys: ["ssh-ed25519 AAAA... alice@laptop"]
package directory
