package releasesrp

import (
	"context"
	"fmt"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
)

// InitSchema creates the releases table if it does not exist yet.
// The derived numeric version columns carry the ordering of the
// version strings, so queries can sort and filter rows without
// parsing versions in the DBMS.
func InitSchema[Q postgres.Queryer](ctx context.Context, q Q) error {
	_, err := q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS releases (
    version varchar(16) PRIMARY KEY,
    major integer NOT NULL,
    minor integer NOT NULL,
    micro integer NOT NULL,
    status char(1) NOT NULL CHECK (status IN ('a', 'b', 'c', 'f')),
    iteration integer NOT NULL,
    date date,
    eom_date date,
    eol_date date,
    is_active boolean NOT NULL,
    is_lts boolean NOT NULL,
    tarball varchar(200) NOT NULL DEFAULT '',
    wheel varchar(200) NOT NULL DEFAULT '',
    checksum varchar(200) NOT NULL DEFAULT ''
)`)
	if err != nil {
		return fmt.Errorf("creating releases table: %w", err)
	}
	return nil
}
