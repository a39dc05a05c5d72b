package instancetab

import "context"

// Authorizer decides whether a viewer may see a tab for an instance. It runs in
// addition to TabProvider.Show.
type Authorizer interface {
	CanViewTab(ctx context.Context, viewer Viewer, scope AccessScope, provider TabProvider) bool
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewTab(context.Context, Viewer, AccessScope, TabProvider) bool {
	return true
}

// PermissionAuthorizer requires the viewer to hold every permission the
// provider declares, at MinAccess or above.
type PermissionAuthorizer struct {
	MinAccess AccessType
}

func (a PermissionAuthorizer) CanViewTab(_ context.Context, viewer Viewer, _ AccessScope, provider TabProvider) bool {
	want := a.MinAccess
	if want == "" {
		want = AccessRead
	}
	for _, required := range provider.RequiredPermissions() {
		if !viewerHolds(viewer, required.Code, want) {
			return false
		}
	}
	return true
}

func viewerHolds(viewer Viewer, code string, want AccessType) bool {
	for _, held := range viewer.Permissions {
		if held.Code == code && held.Grants(want) {
			return true
		}
	}
	return false
}
