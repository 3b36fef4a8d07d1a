package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yukibot/yuki/pkg/retry"
)

type Release struct {
	Tag         string
	AssetName   string
	DownloadURL string
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// LatestRelease returns the first asset of the latest release of repo
// ("owner/name") whose name contains keyword.
func (c *Client) LatestRelease(ctx context.Context, repo, keyword string) (Release, error) {
	var rel githubRelease
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.opts.GitHubAPI, repo)

	err := c.get(ctx, url, func(resp *http.Response) error {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataSize)).Decode(&rel); err != nil {
			return retry.Permanent(fmt.Errorf("decode release: %w", err))
		}
		return nil
	})
	if err != nil {
		return Release{}, err
	}

	for _, a := range rel.Assets {
		if strings.Contains(a.Name, keyword) {
			return Release{Tag: rel.TagName, AssetName: a.Name, DownloadURL: a.BrowserDownloadURL}, nil
		}
	}
	return Release{Tag: rel.TagName}, fmt.Errorf("no %q asset in %s %s: %w", keyword, repo, rel.TagName, ErrNoAsset)
}
