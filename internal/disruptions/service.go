package disruptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"disruptions.onebusaway.org/disruptiondb"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/logging"
	"disruptions.onebusaway.org/internal/metrics"
	"disruptions.onebusaway.org/internal/workarounds"
)

// Store persists disruptions. *disruptiondb.Client implements it.
type Store interface {
	InsertDisruption(ctx context.Context, params disruptiondb.CreateDisruptionParams, entities []workarounds.AffectedEntity, ws []workarounds.Workaround) (disruptiondb.Record, error)
	LoadDisruption(ctx context.Context, id int64) (disruptiondb.Record, error)
	ListRecords(ctx context.Context, status string) ([]disruptiondb.Record, error)
	SaveDisruption(ctx context.Context, params disruptiondb.UpdateDisruptionParams, entities []workarounds.AffectedEntity, ws []workarounds.Workaround) (disruptiondb.Record, error)
	ReplaceAffectedEntities(ctx context.Context, id int64, entities []workarounds.AffectedEntity, ws []workarounds.Workaround, updatedAt int64) (disruptiondb.Record, error)
	ReplaceWorkarounds(ctx context.Context, id int64, ws []workarounds.Workaround, updatedAt int64) (disruptiondb.Record, error)
	RemoveDisruption(ctx context.Context, id int64) error
}

// Catalog fills entity display fields from the transit feed. *gtfs.Manager
// implements it.
type Catalog interface {
	ResolveEntities(entities []workarounds.AffectedEntity) []workarounds.AffectedEntity
}

// Service applies the workaround rules around every disruption change.
type Service struct {
	Store   Store
	Catalog Catalog
	Metrics *metrics.Metrics
	Clock   clock.Clock
	Logger  *slog.Logger
}

func (s *Service) logger(ctx context.Context) *slog.Logger {
	if l := logging.FromContext(ctx); l != nil && l != slog.Default() {
		return l.With(slog.String("component", "disruptions"))
	}
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default().With(slog.String("component", "disruptions"))
}

func (s *Service) resolve(entities []workarounds.AffectedEntity) []workarounds.AffectedEntity {
	if s.Catalog == nil {
		return append([]workarounds.AffectedEntity{}, entities...)
	}
	return s.Catalog.ResolveEntities(entities)
}

func (s *Service) load(ctx context.Context, id int64) (disruptiondb.Record, error) {
	rec, err := s.Store.LoadDisruption(ctx, id)
	if errors.Is(err, disruptiondb.ErrNotFound) {
		return disruptiondb.Record{}, ErrNotFound
	}
	return rec, err
}

func mapStoreErr(err error) error {
	if errors.Is(err, disruptiondb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func validateInput(in Input) *ValidationError {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Header) == "" {
		verr.add("header", "is required")
	}
	if !in.Status.IsValid() {
		verr.add("status", "must be one of not-started, in-progress, resolved, draft")
	}
	if !in.DisruptionType.IsValid() {
		verr.add("disruptionType", "must be one of ROUTES, STOPS")
	}
	if !in.WorkaroundType.IsValid() {
		verr.add("workaroundType", "must be one of all, route, stop")
	}
	if in.StartTime.IsZero() {
		verr.add("startTime", "is required")
	}
	if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
		verr.add("endTime", "must not be before startTime")
	}
	return verr
}

func checkWorkaroundType(verr *ValidationError, entities []workarounds.AffectedEntity, dt workarounds.DisruptionType, wt workarounds.WorkaroundType) {
	if len(entities) == 0 || !dt.IsValid() || !wt.IsValid() {
		return
	}
	if workarounds.IsWorkaroundTypeDisabled(entities, dt, wt) {
		verr.add("workaroundType", "is not available for the affected entities")
	}
}

// checkWorkaroundScopes rejects workarounds whose type differs from the
// disruption's workaround type.
func checkWorkaroundScopes(verr *ValidationError, ws []workarounds.Workaround, wt workarounds.WorkaroundType) {
	if !wt.IsValid() {
		return
	}
	for i, w := range ws {
		if w.Type != wt {
			verr.add(fmt.Sprintf("workarounds[%d].type", i), fmt.Sprintf("must match workaroundType %q", wt))
		}
	}
}

// Create validates and stores a new disruption. Entities are resolved
// against the catalog and the supplied workarounds are reconciled with them.
func (s *Service) Create(ctx context.Context, in Input) (Disruption, error) {
	entities := s.resolve(in.AffectedEntities)

	verr := validateInput(in)
	checkWorkaroundType(verr, entities, in.DisruptionType, in.WorkaroundType)
	checkWorkaroundScopes(verr, in.Workarounds, in.WorkaroundType)
	if err := verr.orNil(); err != nil {
		return Disruption{}, err
	}

	ws := workarounds.ReconcileWorkaroundsForEntities(entities, in.Workarounds, in.DisruptionType, in.WorkaroundType)

	now := s.Clock.NowUnixMilli()
	rec, err := s.Store.InsertDisruption(ctx, disruptiondb.CreateDisruptionParams{
		Header:         strings.TrimSpace(in.Header),
		Cause:          in.Cause,
		Impact:         in.Impact,
		Status:         string(in.Status),
		DisruptionType: string(in.DisruptionType),
		WorkaroundType: string(in.WorkaroundType),
		StartTime:      in.StartTime.UnixMilli(),
		EndTime:        endTimeParam(in),
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}, entities, ws)
	if err != nil {
		logging.LogError(s.logger(ctx), "Failed to create disruption", err)
		return Disruption{}, err
	}

	s.Metrics.DisruptionsSaved.WithLabelValues("create").Inc()
	return fromRecord(rec), nil
}

func endTimeParam(in Input) sql.NullInt64 {
	if in.EndTime == nil {
		return disruptiondb.ToNullInt64(nil)
	}
	ms := in.EndTime.UnixMilli()
	return disruptiondb.ToNullInt64(&ms)
}

// Get returns one disruption or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Disruption, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Disruption{}, err
	}
	return fromRecord(rec), nil
}

// List returns disruptions newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status) ([]Disruption, error) {
	if status != "" && !status.IsValid() {
		verr := &ValidationError{}
		verr.add("status", "must be one of not-started, in-progress, resolved, draft")
		return nil, verr
	}

	records, err := s.Store.ListRecords(ctx, string(status))
	if err != nil {
		return nil, err
	}
	out := make([]Disruption, 0, len(records))
	for _, rec := range records {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Update replaces the editable fields of a disruption. Entities and
// workarounds in the input are ignored; they have their own operations.
// Changing either type clears the workarounds since their scope no longer
// matches.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Disruption, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Disruption{}, err
	}

	verr := validateInput(in)
	checkWorkaroundType(verr, rec.AffectedEntities, in.DisruptionType, in.WorkaroundType)
	if err := verr.orNil(); err != nil {
		return Disruption{}, err
	}

	ws := rec.Workarounds
	if string(in.DisruptionType) != rec.Disruption.DisruptionType || string(in.WorkaroundType) != rec.Disruption.WorkaroundType {
		ws = []workarounds.Workaround{}
	}

	saved, err := s.Store.SaveDisruption(ctx, disruptiondb.UpdateDisruptionParams{
		ID:             id,
		Header:         strings.TrimSpace(in.Header),
		Cause:          in.Cause,
		Impact:         in.Impact,
		Status:         string(in.Status),
		DisruptionType: string(in.DisruptionType),
		WorkaroundType: string(in.WorkaroundType),
		StartTime:      in.StartTime.UnixMilli(),
		EndTime:        endTimeParam(in),
		LastUpdatedAt:  s.Clock.NowUnixMilli(),
	}, rec.AffectedEntities, ws)
	if err != nil {
		return Disruption{}, mapStoreErr(err)
	}

	s.Metrics.DisruptionsSaved.WithLabelValues("update").Inc()
	return fromRecord(saved), nil
}

// Delete removes a disruption.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.Store.RemoveDisruption(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	logging.LogOperation(s.logger(ctx), "disruption_deleted", slog.Int64("disruption_id", id))
	return nil
}

// ReplaceAffectedEntities swaps the entity list and rebuilds the workarounds
// so that only groups still present keep their text.
func (s *Service) ReplaceAffectedEntities(ctx context.Context, id int64, entities []workarounds.AffectedEntity) (Disruption, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Disruption{}, err
	}

	dt := workarounds.DisruptionType(rec.Disruption.DisruptionType)
	wt := workarounds.WorkaroundType(rec.Disruption.WorkaroundType)
	resolved := s.resolve(entities)
	ws := workarounds.ReconcileWorkaroundsForEntities(resolved, rec.Workarounds, dt, wt)

	saved, err := s.Store.ReplaceAffectedEntities(ctx, id, resolved, ws, s.Clock.NowUnixMilli())
	if err != nil {
		return Disruption{}, mapStoreErr(err)
	}

	s.Metrics.WorkaroundReconciliations.WithLabelValues(string(wt)).Inc()
	logging.LogOperation(s.logger(ctx), "workarounds_reconciled",
		slog.Int64("disruption_id", id),
		slog.Int("entities", len(resolved)),
		slog.Int("workarounds_before", len(rec.Workarounds)),
		slog.Int("workarounds_after", len(ws)))
	return fromRecord(saved), nil
}

// ChangeWorkaroundType switches how workarounds are scoped. A type that the
// current entities cannot support is rejected; a real change clears the
// existing workarounds.
func (s *Service) ChangeWorkaroundType(ctx context.Context, id int64, wt workarounds.WorkaroundType) (Disruption, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Disruption{}, err
	}

	verr := &ValidationError{}
	if !wt.IsValid() {
		verr.add("workaroundType", "must be one of all, route, stop")
		return Disruption{}, verr
	}
	dt := workarounds.DisruptionType(rec.Disruption.DisruptionType)
	checkWorkaroundType(verr, rec.AffectedEntities, dt, wt)
	if err := verr.orNil(); err != nil {
		return Disruption{}, err
	}

	if string(wt) == rec.Disruption.WorkaroundType {
		return fromRecord(rec), nil
	}

	d := rec.Disruption
	saved, err := s.Store.SaveDisruption(ctx, disruptiondb.UpdateDisruptionParams{
		ID:             id,
		Header:         d.Header,
		Cause:          d.Cause,
		Impact:         d.Impact,
		Status:         d.Status,
		DisruptionType: d.DisruptionType,
		WorkaroundType: string(wt),
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		LastUpdatedAt:  s.Clock.NowUnixMilli(),
	}, rec.AffectedEntities, []workarounds.Workaround{})
	if err != nil {
		return Disruption{}, mapStoreErr(err)
	}
	return fromRecord(saved), nil
}

// EditWorkaround sets the text of one workaround group. key is the group's
// route short name or stop code, ignored for "all". Empty text removes the
// group's workarounds.
func (s *Service) EditWorkaround(ctx context.Context, id int64, key, text string) (Disruption, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Disruption{}, err
	}

	dt := workarounds.DisruptionType(rec.Disruption.DisruptionType)
	wt := workarounds.WorkaroundType(rec.Disruption.WorkaroundType)
	text = strings.TrimSpace(text)

	if wt == workarounds.WorkaroundTypeAll {
		key = string(workarounds.WorkaroundTypeAll)
	} else if !hasGroup(rec.AffectedEntities, key, dt, wt) {
		verr := &ValidationError{}
		verr.add("workaroundKey", "does not match any affected "+string(wt))
		return Disruption{}, verr
	}

	edited := workarounds.BuildEditedGroup(rec.AffectedEntities, key, text, dt, wt)
	merged := workarounds.MergeWorkarounds(rec.Workarounds, edited, dt, wt)

	saved, err := s.Store.ReplaceWorkarounds(ctx, id, merged, s.Clock.NowUnixMilli())
	if err != nil {
		return Disruption{}, mapStoreErr(err)
	}

	s.Metrics.WorkaroundMerges.WithLabelValues(string(wt)).Inc()
	return fromRecord(saved), nil
}

func hasGroup(entities []workarounds.AffectedEntity, key string, dt workarounds.DisruptionType, wt workarounds.WorkaroundType) bool {
	for _, g := range workarounds.GroupEntities(entities, dt, wt) {
		if g.Key == key {
			return true
		}
	}
	return false
}

// WorkaroundOptions derives the editable workaround fields for a disruption.
func (s *Service) WorkaroundOptions(ctx context.Context, id int64) (WorkaroundOptions, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return WorkaroundOptions{}, err
	}
	return s.options(rec.AffectedEntities, rec.Workarounds,
		workarounds.DisruptionType(rec.Disruption.DisruptionType),
		workarounds.WorkaroundType(rec.Disruption.WorkaroundType)), nil
}

func (s *Service) options(entities []workarounds.AffectedEntity, ws []workarounds.Workaround, dt workarounds.DisruptionType, wt workarounds.WorkaroundType) WorkaroundOptions {
	if !dt.IsValid() {
		s.Metrics.WorkaroundConfigErrors.Inc()
	}

	disabled := make(map[workarounds.WorkaroundType]bool, len(workarounds.WorkaroundTypes))
	for _, t := range workarounds.WorkaroundTypes {
		disabled[t] = workarounds.IsWorkaroundTypeDisabled(entities, dt, t)
	}

	return WorkaroundOptions{
		DisruptionType: dt,
		WorkaroundType: wt,
		Options:        workarounds.GenerateWorkaroundsUIOptions(entities, ws, dt, wt),
		Disabled:       disabled,
	}
}

// WorkaroundSummary renders the workarounds as one line of text.
func (s *Service) WorkaroundSummary(ctx context.Context, id int64, separator string) (string, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if separator == "" {
		separator = workarounds.DefaultTextSeparator
	}
	return workarounds.WorkaroundsAsText(rec.Workarounds, separator), nil
}

// Preview runs resolution, reconciliation and option generation over an
// unsaved form without touching the store.
func (s *Service) Preview(in PreviewInput) Preview {
	entities := s.resolve(in.AffectedEntities)
	ws := workarounds.ReconcileWorkaroundsForEntities(entities, in.Workarounds, in.DisruptionType, in.WorkaroundType)
	return Preview{
		AffectedEntities:  entities,
		Workarounds:       ws,
		WorkaroundOptions: s.options(entities, ws, in.DisruptionType, in.WorkaroundType),
	}
}
