package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kraitsura/insight_viewer/pkg/version"
)

const releasesURL = "https://api.github.com/repos/kraitsura/insight_viewer/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release. Returns the new
// version tag and its URL if an update is available, empty strings otherwise.
func CheckForUpdates() (string, string, error) {
	// Short timeout so startup never hangs on a slow network.
	client := http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(releasesURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	if compareVersions(rel.TagName, version.Version) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Segment-wise numeric compare so 0.10 sorts above 0.2.
func compareVersions(v1, v2 string) int {
	s1 := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	s2 := strings.Split(strings.TrimPrefix(v2, "v"), ".")

	for i := 0; i < len(s1) || i < len(s2); i++ {
		var n1, n2 int
		if i < len(s1) {
			n1, _ = strconv.Atoi(s1[i])
		}
		if i < len(s2) {
			n2, _ = strconv.Atoi(s2[i])
		}
		if n1 != n2 {
			if n1 > n2 {
				return 1
			}
			return -1
		}
	}
	return 0
}
