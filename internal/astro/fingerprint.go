package astro

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

// Fingerprint builds the exact-match profile lookup tuple from parsed birth
// inputs. Two requests with identical fingerprints request the same chart.
func Fingerprint(ownerID *int64, birthDate time.Time, birthTime *time.Time, placeQuery string, loc domain.Location) repos.ProfileFingerprint {
	fp := repos.ProfileFingerprint{
		TelegramUserID: ownerID,
		BirthDate:      birthDate.Format("2006-01-02"),
		TimeUnknown:    birthTime == nil,
		PlaceQuery:     placeQuery,
		Lat:            loc.Lat,
		Lng:            loc.Lng,
		TzStr:          loc.TzStr,
	}
	if birthTime != nil {
		s := birthTime.Format(BirthTimeLayout)
		fp.BirthTime = &s
	}
	return fp
}

// FingerprintKey serializes a fingerprint into the single-flight key that
// guards at-most-one in-progress computation per identical request.
func FingerprintKey(fp repos.ProfileFingerprint) string {
	owner := "-"
	if fp.TelegramUserID != nil {
		owner = strconv.FormatInt(*fp.TelegramUserID, 10)
	}
	birthTime := "-"
	if fp.BirthTime != nil {
		birthTime = *fp.BirthTime
	}
	return fmt.Sprintf("%s|%s|%s|%t|%s|%.6f|%.6f|%s",
		owner, fp.BirthDate, birthTime, fp.TimeUnknown, fp.PlaceQuery, fp.Lat, fp.Lng, fp.TzStr)
}
