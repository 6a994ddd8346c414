package analyzer

import (
	"fmt"
	"sort"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Security scores the repository's security posture from its issue tracker, languages and metadata
func Security(in *models.AnalysisInput) (*models.SecurityResult, error) {
	if in == nil || in.Snapshot == nil {
		return nil, ErrMissingInput
	}
	if in.IssuesErr != nil {
		return nil, inputError("security issues", in.IssuesErr)
	}
	if in.LanguagesErr != nil {
		return nil, inputError("languages", in.LanguagesErr)
	}
	if in.RootErr != nil {
		return nil, inputError("root listing", in.RootErr)
	}
	snap := in.Snapshot

	summary := models.SecurityIssueSummary{Issues: in.SecurityIssues}
	for _, issue := range in.SecurityIssues {
		summary.Total++
		if issue.State == models.IssueOpen {
			summary.Open++
		} else {
			summary.Closed++
		}
	}

	res := &models.SecurityResult{
		SecurityIssues:        summary,
		Languages:             LanguageShares(in.Languages),
		HasDependencyManifest: len(in.Manifests) > 0,
		DependencyManifests:   in.Manifests,
		License:               snap.License,
		Releases:              ReleaseSummary(in.Releases, in.ReleasesErr, in.ChangelogFiles),
		Tracker:               in.Tracker,
		Flags:                 []string{},
		Recommendations:       []string{},
	}
	res.HasSolidityCode = in.Languages["Solidity"] > 0 || snap.Language == "Solidity"
	res.SecurityScore = SecurityScore(summary.Open, summary.Closed, snap.OpenIssuesCount, snap.HasLicense())

	if summary.Open > 0 {
		res.Flags = append(res.Flags, fmt.Sprintf("%d unresolved security issues open", summary.Open))
	}
	if res.HasSolidityCode && !res.HasDependencyManifest {
		res.Flags = append(res.Flags, "Solidity code without dependency manifest - supply chain blind spot")
	}
	if snap.OpenIssuesCount > 100 {
		res.Flags = append(res.Flags,
			fmt.Sprintf("%d open issues - possible poor maintenance", snap.OpenIssuesCount))
	}
	if !snap.HasLicense() {
		res.Flags = append(res.Flags, "No license declared")
	}

	if summary.Closed > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("%d security issues previously resolved", summary.Closed))
	}
	if snap.HasLicense() {
		res.Recommendations = append(res.Recommendations, fmt.Sprintf("License declared: %s", snap.License))
	}
	if len(res.Languages) > 0 {
		top := res.Languages[0]
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Primary language: %s (%.1f%% of code)", top.Name, top.Percent))
	}
	if res.Releases.MissingChangelog {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("%d releases published but no CHANGELOG found; request release notes to assess upgrade risk", res.Releases.Count))
	}
	if t := in.Tracker; t != nil {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Issue tracker: %d open and %d closed pull requests, %d open bug reports",
				t.OpenPullRequests, t.ClosedPullRequests, t.OpenBugIssues))
	}
	return res, nil
}

// ReleaseSummary reports published releases and whether a changelog accompanies them.
// A fetch error leaves the summary unchecked.
func ReleaseSummary(releases []models.ReleaseRecord, err error, changelogs []string) models.ReleaseSummary {
	summary := models.ReleaseSummary{ChangelogFiles: changelogs}
	if err != nil {
		return summary
	}
	summary.Checked = true
	summary.Count = len(releases)
	if len(releases) > 0 {
		summary.Latest = releases[0].TagName
	}
	summary.MissingChangelog = summary.Count > 0 && len(changelogs) == 0
	return summary
}

// SecurityScore starts at 70 and adjusts for security issues, backlog size and license
func SecurityScore(openSecurity, closedSecurity, openIssues int, hasLicense bool) int {
	score := 70

	switch {
	case openSecurity > 5:
		score -= 30
	case openSecurity > 0:
		score -= 15
	}
	if closedSecurity > 2*openSecurity {
		score += 15
	}
	if openIssues > 50 {
		score -= 10
	}
	if !hasLicense {
		score -= 10
	}
	return clamp(score, 0, 100)
}

// LanguageShares converts a byte map into shares sorted by bytes descending, then name
func LanguageShares(languages map[string]int64) []models.LanguageShare {
	var total int64
	for _, b := range languages {
		total += b
	}

	shares := make([]models.LanguageShare, 0, len(languages))
	for name, b := range languages {
		share := models.LanguageShare{Name: name, Bytes: b}
		if total > 0 {
			share.Percent = float64(b) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}
