package instancetab

import (
	"context"
	"errors"
	"io"

	"pgregory.net/rapid"
)

type stubRenderer struct {
	calls        int
	lastTemplate string
	lastData     any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.calls++
	r.lastTemplate = name
	r.lastData = data
	if r.err != nil {
		return "", r.err
	}
	markup := "<div>" + name + "</div>"
	if len(out) > 0 && out[0] != nil {
		_, _ = out[0].Write([]byte(markup))
	}
	return markup, nil
}

type stubTelemetry struct {
	events []string
}

func (t *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events = append(t.events, event)
}

type failingTab struct {
	TabMeta
}

func (failingTab) Show(context.Context, *Instance, Viewer, AccessScope) bool { return true }

func (failingTab) Render(context.Context, *Instance) (View, error) {
	return View{}, errors.New("boom")
}

func awsInstance() *Instance {
	return &Instance{
		ID:         "42",
		ExternalID: "i-0abc",
		Name:       "web-01",
		Status:     "running",
		Zone:       "us-east-1a",
		Cloud:      CloudRef{Code: "amazon", Name: "AWS Prod", RegionCode: "us-east-1"},
		Tags:       map[string]string{"aws:accountId": "123456789012"},
	}
}

func instanceGenerator() *rapid.Generator[*Instance] {
	return rapid.Custom(func(t *rapid.T) *Instance {
		return &Instance{
			ID:         rapid.String().Draw(t, "id"),
			ExternalID: rapid.String().Draw(t, "external_id"),
			Name:       rapid.String().Draw(t, "name"),
			Status:     rapid.SampledFrom([]string{"", "running", "stopped", "failed"}).Draw(t, "status"),
			Region:     rapid.String().Draw(t, "region"),
			Zone:       rapid.String().Draw(t, "zone"),
			Cloud: CloudRef{
				Code:         rapid.SampledFrom([]string{"", "amazon", "azure", "gcp", "vmware"}).Draw(t, "cloud_code"),
				ProviderCode: rapid.String().Draw(t, "provider_code"),
				RegionCode:   rapid.String().Draw(t, "region_code"),
			},
			Tags: rapid.MapOf(rapid.String(), rapid.String()).Draw(t, "tags"),
		}
	})
}
