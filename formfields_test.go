package formfields_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	formfields "github.com/goliatone/go-formfields"
	"github.com/goliatone/go-formfields/pkg/editor"
	"github.com/goliatone/go-formfields/pkg/form"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/schemasync"
	"github.com/goliatone/go-formfields/pkg/testsupport"
)

// storeOwner plays the external owner: it keeps the last emitted schema as
// the wire JSON it would persist.
type storeOwner struct {
	mu        sync.Mutex
	persisted []byte
	emissions int
}

func (o *storeOwner) PublishSchema(_ context.Context, fields []model.WireField) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.persisted = data
	o.emissions++
	return nil
}

func (o *storeOwner) snapshot() ([]byte, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.persisted, o.emissions
}

func TestAuthorFillPresentRoundTrip(t *testing.T) {
	ctx := context.Background()

	// Author time.
	store := editor.NewStore()
	owner := &storeOwner{}
	synchronizer, err := schemasync.New(ctx, store, owner)
	require.NoError(t, err)
	defer synchronizer.Close()

	id, err := store.AddField()
	require.NoError(t, err)
	require.True(t, store.UpdateField(id, editor.Patch{
		Label:    editor.Ptr("Niveau d'études"),
		Type:     editor.Ptr(model.FieldTypeSelect),
		Required: editor.Ptr(true),
	}))
	require.True(t, store.UpdateOption(id, 0, "Bac"))
	for idx, option := range []string{"Licence", "Master"} {
		require.True(t, store.AddOption(id))
		require.True(t, store.UpdateOption(id, idx+1, option))
	}
	require.NoError(t, synchronizer.Flush())

	persisted, emissions := owner.snapshot()
	require.NotEmpty(t, persisted)

	// The owner echoes what it stored; that must not loop back out.
	replaced, issues, err := synchronizer.ReceiveWire(persisted)
	require.NoError(t, err)
	require.Empty(t, issues)
	require.False(t, replaced)
	_, after := owner.snapshot()
	require.Equal(t, emissions, after)

	// Fill time.
	fields, issues, err := formfields.ParseSchema(persisted)
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Len(t, fields, 1)
	require.Equal(t, []string{"Bac", "Licence", "Master"}, fields[0].Options)

	state := formfields.NewForm(fields, nil, "en")
	require.Equal(t, "", state.Value(id))

	html, err := formfields.RenderHTML(ctx, fields, render.RenderOptions{Values: state.Values()})
	require.NoError(t, err)
	require.Contains(t, string(html), `<option value="" selected>`)
	require.Contains(t, string(html), "Niveau d&#39;études")

	_, err = state.Submit()
	require.ErrorIs(t, err, form.ErrInvalid)
	var fieldErrs model.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Equal(t, []string{"This field is required."}, fieldErrs.For(id))

	require.NoError(t, state.Set(id, "Licence"))
	payload, err := state.Payload()
	require.NoError(t, err)

	// Later display.
	stored, err := render.DecodeSubmission(payload)
	require.NoError(t, err)
	require.Empty(t, formfields.Validate(fields, stored, "en"))

	text, err := formfields.PresentText(fields, stored, "en")
	require.NoError(t, err)
	require.Equal(t, "Niveau d'études: Licence\n", text)

	display, err := formfields.Present(ctx, fields, stored, "fr")
	require.NoError(t, err)
	require.Contains(t, string(display), "Licence")
}

func TestValidate_ReportsRequiredInFrench(t *testing.T) {
	fields := testsupport.ApplicationSchema()
	errs := formfields.Validate(fields, formfields.Values{}, "fr")
	require.Equal(t, []string{"Ce champ est obligatoire."}, errs.For("4"))
	require.False(t, errs.Has("3"))
}

func TestExportOpenAPI(t *testing.T) {
	data, err := formfields.ExportOpenAPI(context.Background(), testsupport.ApplicationSchema(), "json")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"x-field-type": "select"`))
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, _, err := formfields.LoadSchema(context.Background(), "testdata/does-not-exist.json")
	require.Error(t, err)
}

func TestEmbeddedTemplates(t *testing.T) {
	require.NotNil(t, formfields.EmbeddedTemplates())
	require.NotNil(t, formfields.PresenterTemplates())
}
