package instancetab

import "context"

// TabProvider supplies the markup data for one panel of an instance detail view.
type TabProvider interface {
	Code() string
	Name() string
	Description() string
	TabSection() TabSection
	RequiredPermissions() []Permission
	Show(ctx context.Context, instance *Instance, viewer Viewer, scope AccessScope) bool
	Render(ctx context.Context, instance *Instance) (View, error)
}

// TabMeta implements the constant accessors of TabProvider. Providers embed it
// and supply Show/Render.
type TabMeta struct {
	TabCode        string
	TabName        string
	TabDescription string
	Section        TabSection
	Permissions    []Permission
}

func (m TabMeta) Code() string        { return m.TabCode }
func (m TabMeta) Name() string        { return m.TabName }
func (m TabMeta) Description() string { return m.TabDescription }

// TabSection defaults to the instance section.
func (m TabMeta) TabSection() TabSection {
	if m.Section == "" {
		return SectionInstance
	}
	return m.Section
}

func (m TabMeta) RequiredPermissions() []Permission {
	return append([]Permission(nil), m.Permissions...)
}

// alwaysShow is the visibility rule every built-in tab uses today. Access
// control is delegated to the Service Authorizer.
func alwaysShow(context.Context, *Instance, Viewer, AccessScope) bool {
	return true
}
