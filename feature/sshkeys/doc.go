// Package sshkeys fetches a user's SSH public keys from the Hesiod directory.
//
// It is meant to back sshd's AuthorizedKeysCommand. Keys are read from
// {username}.count.ssh.{domain} and {username}.{i}.ssh.{domain}; zones published
// before multiple keys were supported only have {username}.ssh.{domain}, which is
// used as a fallback.
//
// Lookups go over TCP since key records rarely fit in a UDP answer. A missing
// record means the user has no keys; any other lookup failure is retried and,
// once retries run out, returned as an error rather than an empty key list.
package sshkeys
