package releasesrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/cerr"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/jackc/pgx/v5/pgconn"
)

// gRelease is the GORM model of one row of the releases table.
// The major, minor, micro, status, and iteration columns are derived
// from the version string when a row is inserted, so the version
// ordering can be expressed by the DBMS despite the non-lexicographic
// ordering of the version strings themselves. The single-letter status
// codes preserve the a < b < c < f chronological ordering.
type gRelease struct {
	Version   string `gorm:"primaryKey;type:varchar(16)"`
	Major     uint
	Minor     uint
	Micro     uint
	Status    string `gorm:"type:char(1)"`
	Iteration uint
	Date      *time.Time `gorm:"type:date"`
	EOMDate   *time.Time `gorm:"column:eom_date;type:date"`
	EOLDate   *time.Time `gorm:"column:eol_date;type:date"`
	IsActive  bool
	IsLTS     bool `gorm:"column:is_lts"`
	Tarball   string
	Wheel     string
	Checksum  string
}

func (gr *gRelease) TableName() string {
	return "releases"
}

func (gr *gRelease) Model() (model.Release, error) {
	status, err := model.ParseStatus(gr.Status)
	if err != nil {
		return model.Release{}, fmt.Errorf(
			"release %q: status %q: %w", gr.Version, gr.Status, err,
		)
	}
	return model.Release{
		Version: model.Version{
			Major:     gr.Major,
			Minor:     gr.Minor,
			Micro:     gr.Micro,
			Status:    status,
			Iteration: gr.Iteration,
		},
		Date:     dateOf(gr.Date),
		EOMDate:  dateOf(gr.EOMDate),
		EOLDate:  dateOf(gr.EOLDate),
		IsActive: gr.IsActive,
		IsLTS:    gr.IsLTS,
		Tarball:  gr.Tarball,
		Wheel:    gr.Wheel,
		Checksum: gr.Checksum,
	}, nil
}

func newGRelease(r model.Release) *gRelease {
	return &gRelease{
		Version:   r.Version.String(),
		Major:     r.Version.Major,
		Minor:     r.Version.Minor,
		Micro:     r.Version.Micro,
		Status:    r.Version.Status.Code(),
		Iteration: r.Version.Iteration,
		Date:      timeOf(r.Date),
		EOMDate:   timeOf(r.EOMDate),
		EOLDate:   timeOf(r.EOLDate),
		IsActive:  r.IsActive,
		IsLTS:     r.IsLTS,
		Tarball:   r.Tarball,
		Wheel:     r.Wheel,
		Checksum:  r.Checksum,
	}
}

func dateOf(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}

func timeOf(d *model.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// List loads all release records, ordered by descending version.
func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Release, error) {
	gdb := q.GORM(ctx)
	var grs []gRelease
	err := gdb.Order(
		"major desc, minor desc, micro desc, status desc, iteration desc",
	).Find(&grs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	rs := make([]model.Release, 0, len(grs))
	for i := range grs {
		r, err := grs[i].Model()
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Create inserts the given release records. Publishing an active final
// micro release also marks the end of extended support of the previous
// micro release of the same series (setting its eol date to the new
// release date), unless an eol date was recorded for it explicitly.
// Inserting a duplicate version is reported as a conflict error.
func Create[Q postgres.Queryer](ctx context.Context, q Q, releases ...model.Release) error {
	gdb := q.GORM(ctx)
	for _, r := range releases {
		if err := r.Version.Status.Validate(); err != nil {
			return cerr.BadRequest(err)
		}
		gr := newGRelease(r)
		if err := gdb.Create(gr).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return cerr.Conflict(fmt.Errorf(
					"version %q already exists", gr.Version,
				))
			}
			return fmt.Errorf("insert %q: %w", gr.Version, err)
		}
		if err := eolPredecessor(ctx, q, r); err != nil {
			return err
		}
	}
	return nil
}

// eolPredecessor ends the life of the micro release superseded by the
// newly published r release, if any.
func eolPredecessor[Q postgres.Queryer](ctx context.Context, q Q, r model.Release) error {
	v := r.Version
	if v.IsPreRelease() || v.Micro == 0 || !r.IsActive || r.Date == nil {
		return nil
	}
	gdb := q.GORM(ctx)
	err := gdb.Model(&gRelease{}).Where(
		"major=? AND minor=? AND micro=? AND status='f'"+
			" AND eol_date IS NULL",
		v.Major, v.Minor, v.Micro-1,
	).Update("eol_date", r.Date.Time()).Error
	if err != nil {
		return fmt.Errorf("eol of %d.%d.%d: %w",
			v.Major, v.Minor, v.Micro-1, err)
	}
	return nil
}
