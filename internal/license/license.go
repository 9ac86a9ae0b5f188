// internal/license/license.go

// Package license cross-checks licenseid results against other detectors.
package license

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"
	"github.com/google/licensecheck"

	"github.com/dsablic/licenseid/internal/model"
)

const confidenceThreshold = 0.85

// Detector names reported in model.CrossCheck.
const (
	DetectorLicenseDB    = "go-license-detector"
	DetectorLicenseCheck = "licensecheck"
)

var candidates = []string{
	"COPYING",
	"LICENCE",
	"LICENSE",
	"LICENSE-2.0",
	"LICENCE-2.0",
	"LICENSE-APACHE",
	"LICENCE-APACHE",
	"LICENSE-APACHE-2.0",
	"LICENCE-APACHE-2.0",
	"LICENSE-MIT",
	"LICENCE-MIT",
	"MIT-LICENSE",
	"MIT-LICENCE",
	"MIT_LICENSE",
	"MIT_LICENCE",
	"UNLICENSE",
	"UNLICENCE",
}

var maybeLicense = func() map[string]bool {
	m := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		m[strings.ToLower(c)] = true
	}
	return m
}()

// IsCandidate reports whether a file name looks like a license file, such
// as LICENSE, COPYING.md or MIT-LICENSE.txt.
func IsCandidate(name string) bool {
	name = filepath.Base(name)
	return maybeLicense[strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))]
}

// Detect runs go-license-detector over dir and returns its most confident
// match. Matches below the confidence threshold are not reported.
func Detect(dir string) (model.CrossCheck, bool) {
	best, ok := detectLicenseDB(dir)
	if !ok || best.Confidence < confidenceThreshold {
		return model.CrossCheck{}, false
	}
	return best, true
}

func detectLicenseDB(dir string) (model.CrossCheck, bool) {
	f, err := filer.FromDirectory(dir)
	if err != nil {
		return model.CrossCheck{}, false
	}

	results, err := licensedb.Detect(f)
	if err != nil {
		return model.CrossCheck{}, false
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := model.CrossCheck{Detector: DetectorLicenseDB}
	for _, id := range ids {
		if conf := float64(results[id].Confidence); conf > best.Confidence {
			best.Confidence = conf
			best.License = id
		}
	}
	return best, best.License != ""
}

// CrossCheck runs the external detectors over the license files at the top
// of dir. Detectors that find nothing are left out.
func CrossCheck(dir string) []model.CrossCheck {
	var checks []model.CrossCheck
	if best, ok := Detect(dir); ok {
		checks = append(checks, best)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return checks
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsCandidate(e.Name()) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		cov := licensecheck.Scan(b)
		if len(cov.Match) == 0 {
			continue
		}
		checks = append(checks, model.CrossCheck{
			Detector:   DetectorLicenseCheck,
			License:    cov.Match[0].ID,
			Confidence: cov.Percent / 100,
		})
	}
	return checks
}
