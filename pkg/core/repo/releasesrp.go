package repo

import (
	"context"

	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
)

type ReleasesConnQueryer interface {
	ReleasesQueryer
}

type ReleasesTxQueryer interface {
	ReleasesQueryer
}

type ReleasesQueryer interface {
	List(ctx context.Context) ([]model.Release, error)
	Create(ctx context.Context, releases ...model.Release) error
}

type Releases interface {
	Conn(Conn) ReleasesConnQueryer
	Tx(Tx) ReleasesTxQueryer
}
