// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL adapter, implementing the
// connection pool, connection, and transaction interfaces of the
// pkg/core/repo package using the GORM framework. The repository
// implementations, such as the releasesrp package, obtain a *gorm.DB
// instance from a *Conn or *Tx instance (using the Queryer generic
// interface) and run their queries with it.
package postgres
