package paths

import (
	"log/slog"

	"tools.zach/dev/scriptpaths/internal/logger"
)

// ResolveModule returns resolve(base + "." + ext) for the first extension in
// [ModuleFileExtensions] whose file exists in fsys. When none exists the ".js"
// path is returned anyway; the build step that opens it reports the missing
// file.
func ResolveModule(fsys FS, resolve func(string) string, base string) string {
	for _, ext := range ModuleFileExtensions {
		candidate := resolve(base + "." + ext)
		found := fsys.Exists(candidate)
		logger.Trace(slog.Default(), "module candidate", "path", candidate, "found", found)
		if found {
			return candidate
		}
	}
	return resolve(base + ".js")
}
