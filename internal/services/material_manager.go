package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/extid"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

// MaterialParent is a resolved owner of a material collection together with
// the converter for its storage class.
type MaterialParent struct {
	Info      *registry.TypeInfo
	Entity    entity.Entity
	Ref       materials.ParentRef
	Converter Converter
}

func (p *MaterialParent) binding() *registry.MaterialBinding { return p.Info.Material }

// MaterialService owns the material lifecycle of every parent kind.
type MaterialService interface {
	ResolveParent(dbc dbctx.Context, section, externalID string) (*MaterialParent, error)
	Create(dbc dbctx.Context, data map[string]any, parent *MaterialParent, u *user.User) (*materials.Material, error)
	Get(dbc dbctx.Context, parent *MaterialParent, externalID string, u *user.User) (*materials.Material, error)
	Edit(dbc dbctx.Context, data map[string]any, parent *MaterialParent, existing *materials.Material, u *user.User, enforceOwnership bool) (*materials.Material, error)
	Delete(dbc dbctx.Context, parent *MaterialParent, m *materials.Material, u *user.User, enforceOwnership bool) error
	List(dbc dbctx.Context, parent *MaterialParent, u *user.User) ([]map[string]any, error)
	UpdateMaterialsList(dbc dbctx.Context, items []map[string]any, parent *MaterialParent, u *user.User) ([]map[string]any, error)
	FormatInfo(dbc dbctx.Context, m *materials.Material, u *user.User) (map[string]any, error)
}

type MaterialServiceDeps struct {
	Registry   *registry.Registry
	Entities   entities.EntityRepo
	Users      users.UserRepo
	Converters Converters
	Perms      PermissionGate
	Files      FileService
	Certs      CertService
	Hooks      aggregates.Hooks
	Clock      func() time.Time
}

type materialService struct {
	log        *logger.Logger
	reg        *registry.Registry
	entities   entities.EntityRepo
	users      users.UserRepo
	converters Converters
	perms      PermissionGate
	files      FileService
	certs      CertService
	hooks      aggregates.Hooks
	now        func() time.Time
}

func NewMaterialService(baseLog *logger.Logger, deps MaterialServiceDeps) MaterialService {
	hooks := deps.Hooks
	if hooks == nil {
		hooks = aggregates.NoopHooks()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &materialService{
		log:        baseLog.With("service", "MaterialService"),
		reg:        deps.Registry,
		entities:   deps.Entities,
		users:      deps.Users,
		converters: deps.Converters,
		perms:      deps.Perms,
		files:      deps.Files,
		certs:      deps.Certs,
		hooks:      hooks,
		now:        clock,
	}
}

// stamp is the current time at the precision the store keeps.
func (ms *materialService) stamp() time.Time {
	return ms.now().UTC().Truncate(time.Microsecond)
}

func (ms *materialService) ResolveParent(dbc dbctx.Context, section, externalID string) (*MaterialParent, error) {
	const op = "materials.resolve_parent"
	info, err := ms.reg.MaterialParent(section)
	if err != nil {
		return nil, err
	}
	e, err := ms.entities.Find(dbc, info.Model, externalID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound(op, info.Name)
	}
	conv, err := ms.converters.For(info.Material.Class)
	if err != nil {
		ms.log.Error("Material parent without converter", "type", info.Name, "error", err)
		return nil, apierr.Internal(op, err)
	}
	return &MaterialParent{
		Info:      info,
		Entity:    e,
		Ref:       materials.ParentRef{Kind: info.Material.ParentKind, ID: e.PK(), ExternalID: e.ExternalID()},
		Converter: conv,
	}, nil
}

// canContribute admits enrolled participants on parents that accept contributions.
func (ms *materialService) canContribute(dbc dbctx.Context, parent *MaterialParent, u *user.User) (bool, error) {
	if !parent.binding().Contributions {
		return false, nil
	}
	return ms.perms.IsEnrolled(dbc, parent.Entity, u)
}

func (ms *materialService) requireCreate(dbc dbctx.Context, parent *MaterialParent, u *user.User) error {
	if ms.perms.CanEdit(parent.Entity, u) {
		return nil
	}
	ok, err := ms.canContribute(dbc, parent, u)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("materials.create", parent.Info.Name)
	}
	return nil
}

func (ms *materialService) requireModify(dbc dbctx.Context, parent *MaterialParent, m *materials.Material, u *user.User) error {
	if ms.perms.CanEdit(parent.Entity, u) {
		return nil
	}
	if u != nil && m.AuthorID == u.ID {
		ok, err := ms.canContribute(dbc, parent, u)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return notFound("materials.modify", "material")
}

func (ms *materialService) Create(dbc dbctx.Context, data map[string]any, parent *MaterialParent, u *user.User) (m *materials.Material, err error) {
	const op = "materials.create"
	start := time.Now()
	defer func() { aggregates.Observe(ms.hooks, op, start, err) }()

	if err := ms.requireCreate(dbc, parent, u); err != nil {
		return nil, err
	}
	in, err := decodeMaterialInput(op, data)
	if err != nil {
		return nil, err
	}
	pos, err := parent.Converter.NextPosition(dbc, parent.Ref)
	if err != nil {
		return nil, err
	}
	return ms.build(dbc, op, in, parent, u, pos)
}

// resolveAsset checks that id names an asset from u's own library. current is
// the asset already attached, which stays valid whoever edits the material.
func (ms *materialService) resolveAsset(dbc dbctx.Context, id, current string, u *user.User) error {
	if id == "" || id == current {
		return nil
	}
	a, err := ms.files.Resolve(dbc, id)
	if err != nil {
		return err
	}
	if u == nil || (a.OwnerID != u.ID && !u.IsAdmin()) {
		ms.log.Debug("Asset from another library rejected", "asset", id, "user_id", userID(u))
		return apierr.ReferenceNotFound("materials.resolve_asset", "asset", id)
	}
	return nil
}

func (ms *materialService) build(dbc dbctx.Context, op string, in *materialInput, parent *MaterialParent, u *user.User, position int) (*materials.Material, error) {
	t, err := parseMaterialType(op, in.Type)
	if err != nil {
		return nil, err
	}
	title := strVal(in.Title)
	if err := validateFields(op, title, in.Description); err != nil {
		return nil, err
	}
	payload, err := payloadFor(op, t, in.Payload)
	if err != nil {
		return nil, err
	}
	if err := ms.resolveAsset(dbc, payload.AssetID, "", u); err != nil {
		return nil, err
	}
	preview, err := assetRef(op, "previewImage", in.PreviewImage)
	if err != nil {
		return nil, err
	}
	if t.RequiresPreview() && preview == "" {
		return nil, apierr.MissingRequiredField(op, "material", "previewImage")
	}
	if err := ms.resolveAsset(dbc, preview, "", u); err != nil {
		return nil, err
	}

	now := ms.stamp()
	m := &materials.Material{
		UUID:         extid.New(),
		Parent:       parent.Ref,
		Position:     position,
		Type:         t,
		Title:        title,
		Description:  in.Description,
		Payload:      payload,
		PreviewImage: preview,
		AuthorID:     u.ID,
		CreatedAt:    now,
		EditedAt:     now,
	}
	if parent.Converter.Class() == registry.ClassSubmission {
		m.Submission = &materials.SubmissionState{Final: in.Final != nil && *in.Final}
	} else if in.Final != nil {
		ms.log.Debug("Ignoring final flag on non-submission material", "parent", parent.Info.Name)
	}
	if err := parent.Converter.Insert(dbc, m); err != nil {
		return nil, err
	}
	if m.IsFinal() {
		slot, _ := parent.Entity.(*learning.HomeworkSlot)
		cert, err := ms.certs.EnsurePending(dbc, slot, m, u)
		if err != nil {
			return nil, err
		}
		if cert != nil {
			if err := parent.Converter.Save(dbc, m); err != nil {
				return nil, err
			}
		}
	}
	ms.log.Debug("Material created", "material", m.UUID, "type", m.Type, "parent", parent.Ref.ExternalID, "author_id", m.AuthorID)
	return m, nil
}

func (ms *materialService) Get(dbc dbctx.Context, parent *MaterialParent, externalID string, u *user.User) (*materials.Material, error) {
	const op = "materials.get"
	if err := ms.perms.RequireRead(dbc, parent.Entity, u, parent.Info.Name); err != nil {
		return nil, err
	}
	m, err := parent.Converter.Get(dbc, parent.Ref, externalID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound(op, "material")
	}
	return m, nil
}

func (ms *materialService) Edit(dbc dbctx.Context, data map[string]any, parent *MaterialParent, existing *materials.Material, u *user.User, enforceOwnership bool) (m *materials.Material, err error) {
	const op = "materials.edit"
	start := time.Now()
	defer func() { aggregates.Observe(ms.hooks, op, start, err) }()

	if existing == nil {
		return nil, notFound(op, "material")
	}
	if enforceOwnership {
		if err := ms.requireModify(dbc, parent, existing, u); err != nil {
			return nil, err
		}
	}
	return ms.apply(dbc, op, data, parent, existing, u, nil)
}

// apply edits a copy of existing. Read-only and create-only keys are dropped.
func (ms *materialService) apply(dbc dbctx.Context, op string, data map[string]any, parent *MaterialParent, existing *materials.Material, u *user.User, position *int) (*materials.Material, error) {
	clean, dropped := stripImmutable(data)
	if len(dropped) > 0 {
		ms.log.Debug("Dropping read-only material fields", "fields", dropped, "material", existing.UUID)
	}
	in, err := decodeMaterialInput(op, clean)
	if err != nil {
		return nil, err
	}

	m := *existing
	if existing.Submission != nil {
		sub := *existing.Submission
		m.Submission = &sub
	}
	if in.has("title") {
		m.Title = strVal(in.Title)
	}
	if in.has("description") {
		m.Description = in.Description
	}
	// A null payload on an asset material keeps the stored asset.
	if in.has("payload") && !(m.Type.UsesAsset() && in.Payload == nil) {
		payload, err := payloadFor(op, m.Type, in.Payload)
		if err != nil {
			return nil, err
		}
		if err := ms.resolveAsset(dbc, payload.AssetID, existing.Payload.AssetID, u); err != nil {
			return nil, err
		}
		m.Payload = payload
	}
	if in.has("previewImage") {
		preview, err := assetRef(op, "previewImage", in.PreviewImage)
		if err != nil {
			return nil, err
		}
		if err := ms.resolveAsset(dbc, preview, existing.PreviewImage, u); err != nil {
			return nil, err
		}
		m.PreviewImage = preview
	}
	if m.Type.RequiresPreview() && m.PreviewImage == "" {
		return nil, apierr.MissingRequiredField(op, "material", "previewImage")
	}
	if err := validateFields(op, m.Title, m.Description); err != nil {
		return nil, err
	}
	if in.has("final") {
		if m.Submission != nil {
			m.Submission.Final = in.Final != nil && *in.Final
		} else {
			ms.log.Debug("Ignoring final flag on non-submission material", "material", m.UUID)
		}
	}
	if position != nil {
		m.Position = *position
	}

	now := ms.stamp()
	if !now.After(existing.EditedAt) {
		now = existing.EditedAt.Add(time.Microsecond)
	}
	m.EditedAt = now

	switch {
	case !existing.IsFinal() && m.IsFinal():
		slot, _ := parent.Entity.(*learning.HomeworkSlot)
		if _, err := ms.certs.EnsurePending(dbc, slot, &m, u); err != nil {
			return nil, err
		}
	case existing.IsFinal() && !m.IsFinal():
		if err := ms.certs.Unfinalize(dbc, &m, u); err != nil {
			return nil, err
		}
	}

	if err := parent.Converter.Save(dbc, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (ms *materialService) Delete(dbc dbctx.Context, parent *MaterialParent, m *materials.Material, u *user.User, enforceOwnership bool) (err error) {
	const op = "materials.delete"
	start := time.Now()
	defer func() { aggregates.Observe(ms.hooks, op, start, err) }()

	if m == nil {
		return notFound(op, "material")
	}
	if enforceOwnership {
		if err := ms.requireModify(dbc, parent, m, u); err != nil {
			return err
		}
	}
	current, err := parent.Converter.Get(dbc, parent.Ref, m.UUID)
	if err != nil {
		return err
	}
	if current == nil {
		return notFound(op, "material")
	}
	return ms.remove(dbc, parent, current, u)
}

// remove soft-deletes m. Referenced assets are never touched.
func (ms *materialService) remove(dbc dbctx.Context, parent *MaterialParent, m *materials.Material, u *user.User) error {
	if m.IsSubmission() {
		if err := ms.certs.SubmissionRemoved(dbc, m, u); err != nil {
			return err
		}
	}
	if err := parent.Converter.Remove(dbc, m); err != nil {
		return err
	}
	ms.log.Debug("Material deleted", "material", m.UUID, "parent", parent.Ref.ExternalID)
	return nil
}

func (ms *materialService) List(dbc dbctx.Context, parent *MaterialParent, u *user.User) (views []map[string]any, err error) {
	const op = "materials.list"
	start := time.Now()
	defer func() { aggregates.Observe(ms.hooks, op, start, err) }()

	if err := ms.perms.RequireRead(dbc, parent.Entity, u, parent.Info.Name); err != nil {
		return nil, err
	}
	list, err := parent.Converter.List(dbc, parent.Ref)
	if err != nil {
		return nil, err
	}
	return ms.formatAll(dbc, list)
}

// UpdateMaterialsList reconciles the collection with items: known uuids are
// edited in place, the rest are created, and children missing from items are
// deleted. Stored positions follow the order of items.
func (ms *materialService) UpdateMaterialsList(dbc dbctx.Context, items []map[string]any, parent *MaterialParent, u *user.User) (views []map[string]any, err error) {
	const op = "materials.update_list"
	start := time.Now()
	defer func() { aggregates.Observe(ms.hooks, op, start, err) }()

	if err := ms.perms.RequireEdit(parent.Entity, u, parent.Info.Name); err != nil {
		return nil, err
	}
	current, err := parent.Converter.List(dbc, parent.Ref)
	if err != nil {
		return nil, err
	}
	byUUID := make(map[string]*materials.Material, len(current))
	for _, m := range current {
		byUUID[m.UUID] = m
	}

	inputs := make([]*materialInput, len(items))
	matched := make([]*materials.Material, len(items))
	keep := make(map[string]bool, len(items))
	for i, item := range items {
		in, err := decodeMaterialInput(op, item)
		if err != nil {
			return nil, err
		}
		inputs[i] = in
		id := in.externalID()
		existing, ok := byUUID[id]
		if !ok {
			continue
		}
		if keep[id] {
			return nil, apierr.BadDataf(op, "material %q listed twice", id)
		}
		keep[id] = true
		matched[i] = existing
	}

	for _, m := range current {
		if keep[m.UUID] {
			continue
		}
		if err := ms.remove(dbc, parent, m, u); err != nil {
			return nil, err
		}
	}
	for i := range items {
		pos := i
		if matched[i] != nil {
			if _, err := ms.apply(dbc, op, items[i], parent, matched[i], u, &pos); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := ms.build(dbc, op, inputs[i], parent, u, pos); err != nil {
			return nil, err
		}
	}

	list, err := parent.Converter.List(dbc, parent.Ref)
	if err != nil {
		return nil, err
	}
	return ms.formatAll(dbc, list)
}

func (ms *materialService) FormatInfo(dbc dbctx.Context, m *materials.Material, u *user.User) (map[string]any, error) {
	views, err := ms.formatAll(dbc, []*materials.Material{m})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// formatAll projects materials, resolving submission author names in one query.
func (ms *materialService) formatAll(dbc dbctx.Context, list []*materials.Material) ([]map[string]any, error) {
	names := map[string]string{}
	seen := map[uuid.UUID]bool{}
	var authorIDs []uuid.UUID
	for _, m := range list {
		if m.IsSubmission() && !seen[m.AuthorID] {
			seen[m.AuthorID] = true
			authorIDs = append(authorIDs, m.AuthorID)
		}
	}
	if len(authorIDs) > 0 {
		authors, err := ms.users.GetByIDs(dbc, authorIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range authors {
			names[a.ID.String()] = a.DisplayName()
		}
	}

	out := make([]map[string]any, 0, len(list))
	for _, m := range list {
		view, err := ms.view(dbc, m)
		if err != nil {
			return nil, err
		}
		if m.IsSubmission() {
			view["final"] = m.Submission.Final
			view["authorName"] = names[m.AuthorID.String()]
		}
		out = append(out, view)
	}
	return out, nil
}

func (ms *materialService) view(dbc dbctx.Context, m *materials.Material) (map[string]any, error) {
	var payload any = m.Payload.Text
	payloadURL := materials.TextPayloadURL
	if m.Type.UsesAsset() {
		payload = map[string]any{"uuid": m.Payload.AssetID}
		u, err := ms.files.PublicURL(dbc, m.Payload.AssetID)
		if err != nil {
			return nil, err
		}
		payloadURL = u
	}
	var preview any
	if m.PreviewImage != "" {
		preview = map[string]any{"uuid": m.PreviewImage}
	}
	var description any
	if m.Description != nil {
		description = *m.Description
	}
	return map[string]any{
		"uuid":         m.UUID,
		"type":         string(m.Type),
		"title":        m.Title,
		"description":  description,
		"payload":      payload,
		"previewImage": preview,
		"payloadUrl":   payloadURL,
		"createdAt":    m.CreatedAt,
		"editedAt":     m.EditedAt,
	}, nil
}
