package directive

import "fmt"

// Apply dispatches kind to its applicator and returns the transformed file
// content. This is the single directive-to-output mapping shared by the
// batch builder and the dev server; applicator errors propagate unchanged.
//
// None and NoInclude must be intercepted by the caller before dispatch —
// reaching Apply with either is an internal error, not a content error.
func Apply(path string, kind Kind, urlPrefix string) (string, error) {
	switch kind {
	case DirectoryListing:
		return applyDirectoryListing(path, urlPrefix)
	case HTMLMinify:
		return applyHTMLMinify(path)
	case JSONMinify:
		return applyJSONMinify(path)
	case Base64Bundle:
		return applyBase64Bundle(path)
	case ChallengePage:
		return applyChallengePage(path)
	case NoInclude:
		return "", fmt.Errorf("internal error: no_include files must be skipped, not applied (%s)", path)
	default:
		return "", fmt.Errorf("internal error: no applicator for directive %q (%s)", kind, path)
	}
}
