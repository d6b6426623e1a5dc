package releasesrp

import (
	"context"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (rels *Repo) Conn(c repo.Conn) repo.ReleasesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context) ([]model.Release, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Create(ctx context.Context, releases ...model.Release) error {
	return Create(ctx, cq.Conn, releases...)
}

type txQueryer struct {
	*postgres.Tx
}

func (rels *Repo) Tx(tx repo.Tx) repo.ReleasesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context) ([]model.Release, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Create(ctx context.Context, releases ...model.Release) error {
	return Create(ctx, tq.Tx, releases...)
}
