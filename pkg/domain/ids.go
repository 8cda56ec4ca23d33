// Package domain holds the typed identifiers shared across the module.
// Clubs and licences are serial rows in the federation database, so their
// IDs are positive integers rather than UUIDs.
package domain

import (
	"strconv"

	dErrors "affilia/pkg/domain-errors"
)

type ClubID int64

type LicenceID int64

// ParseClubID parses a route or form value into a ClubID.
// IDs must be strictly positive integers.
func ParseClubID(s string) (ClubID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid club id")
	}
	return ClubID(n), nil
}

// ParseLicenceID parses a route or form value into a LicenceID.
// IDs must be strictly positive integers.
func ParseLicenceID(s string) (LicenceID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid licence id")
	}
	return LicenceID(n), nil
}

func (id ClubID) IsValid() bool { return id > 0 }

func (id ClubID) Int64() int64 { return int64(id) }

func (id ClubID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id LicenceID) IsValid() bool { return id > 0 }

func (id LicenceID) Int64() int64 { return int64(id) }

func (id LicenceID) String() string { return strconv.FormatInt(int64(id), 10) }
