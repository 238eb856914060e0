package provenance

import (
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// PackageRepoURL reads the repository URL from a package.json-style
// descriptor. Both {"repository": {"url": "..."}} and the shorthand
// {"repository": "..."} are accepted.
func PackageRepoURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return "", errors.Errorf("%s is not valid JSON", path)
	}

	repo := gjson.GetBytes(data, "repository")
	switch {
	case repo.IsObject():
		if url := repo.Get("url"); url.Type == gjson.String && url.String() != "" {
			return url.String(), nil
		}
	case repo.Type == gjson.String && repo.String() != "":
		return repo.String(), nil
	}

	return "", errors.Errorf("%s has no repository url", path)
}
