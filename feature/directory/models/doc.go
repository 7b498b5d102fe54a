// Package models defines the UNIX user and group entities published in the directory.
//
// Both entities render to colon separated lines in /etc/passwd and /etc/group
// format. Construction rejects any field that would inject an extra separator,
// because consumers split those lines by position.
package models
