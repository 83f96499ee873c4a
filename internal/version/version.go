// Package version parses and orders corpus versions of the form vYYYYMMDD.n.
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CorpusRegex validates corpus version strings.
var CorpusRegex = regexp.MustCompile(`^v([0-9]{8})\.([0-9]+)$`)

const dateLayout = "20060102"

// Corpus is a parsed corpus version: the day it was cut and a revision
// counter within that day.
type Corpus struct {
	Date     time.Time
	Revision int
}

// Validate checks that v is a well-formed corpus version with a real date.
func Validate(v string) error {
	_, err := Parse(v)
	return err
}

// Parse parses a corpus version string.
func Parse(v string) (*Corpus, error) {
	match := CorpusRegex.FindStringSubmatch(v)
	if match == nil {
		return nil, fmt.Errorf("invalid corpus version %q: want vYYYYMMDD.n", v)
	}

	date, err := time.Parse(dateLayout, match[1])
	if err != nil {
		return nil, fmt.Errorf("invalid corpus version %q: bad date %s", v, match[1])
	}
	rev, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, fmt.Errorf("invalid corpus version %q: revision out of range", v)
	}

	return &Corpus{Date: date, Revision: rev}, nil
}

// String returns the vYYYYMMDD.n representation.
func (c *Corpus) String() string {
	return fmt.Sprintf("v%s.%d", c.Date.Format(dateLayout), c.Revision)
}

// Compare compares two corpus versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	if c := va.Date.Compare(vb.Date); c != 0 {
		return c, nil
	}
	return cmp.Compare(va.Revision, vb.Revision), nil
}
