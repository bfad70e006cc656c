package git

import (
	"strings"
)

// Commit types used for changes to a data directory.
const (
	CommitTypeLog    = "log"
	CommitTypeDay    = "day"
	CommitTypeImport = "import"
	CommitTypeUsers  = "users"
	CommitTypeChore  = "chore"
)

// Trailer is appended to every commit written by the tracker.
const Trailer = "Recorded-by: fittrack"

// FormatMessage builds a commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Recorded-by: fittrack
func FormatMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(Trailer)
	return sb.String()
}

// AppendTrailer adds the trailer to a free-form message if it is not there yet.
func AppendTrailer(msg string) string {
	if strings.Contains(msg, Trailer) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + Trailer
}
