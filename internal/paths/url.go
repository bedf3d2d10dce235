package paths

import (
	"net/url"

	"tools.zach/dev/scriptpaths/internal/manifest"
)

// ///////////////////////////////////////////////
// Public URL
// ///////////////////////////////////////////////

// PublicURL returns the PUBLIC_URL override, or the manifest homepage when
// the override is unset. Either may be empty.
func PublicURL(env Env, m *manifest.Manifest) string {
	if env.PublicURL != "" {
		return env.PublicURL
	}
	return m.Homepage
}

// ServedPath returns the URL path the app is served under, always ending in
// "/". PUBLIC_URL is used verbatim; otherwise the path component of the
// manifest homepage is used; with neither, the result is "/".
func ServedPath(env Env, m *manifest.Manifest) string {
	if env.PublicURL != "" {
		return EnsureTrailingSlash(env.PublicURL, true)
	}
	if m.Homepage == "" {
		return "/"
	}
	return EnsureTrailingSlash(homepagePath(m.Homepage), true)
}

// homepagePath extracts the path component of a homepage URL, keeping its
// percent-escapes so it can be used as a URL prefix. Unparseable values are
// treated as a bare path.
func homepagePath(homepage string) string {
	u, err := url.Parse(homepage)
	if err != nil {
		return homepage
	}
	p := u.EscapedPath()
	if p == "" && u.Host != "" {
		return "/"
	}
	return p
}

// ///////////////////////////////////////////////
// Export URL
// ///////////////////////////////////////////////

// ExportEnvironment returns the environment segment of an export URL.
func ExportEnvironment(isProduction bool) string {
	if isProduction {
		return "production"
	}
	return "staging"
}

// ExportServedPath builds the CDN URL a library build is published under:
//
//	{prefix}/{normalized name}/{production|staging}/{version}/
func ExportServedPath(prefix string, m *manifest.Manifest, isProduction bool) string {
	u := prefix + "/" + NormalizePackageName(m.Name) + "/" + ExportEnvironment(isProduction) + "/" + m.Version
	return EnsureTrailingSlash(u, true)
}
