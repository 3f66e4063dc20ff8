// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const recordTableSchema = `
create table if not exists record (
	seq integer primary key,
	name text not null,
	time integer not null,
	account blob(20),
	org blob(32),
	data text not null
);

CREATE INDEX if not exists nameIndex on record(name);
CREATE INDEX if not exists timeIndex on record(time);
CREATE INDEX if not exists accountIndex on record(account);
CREATE INDEX if not exists orgIndex on record(org);
`
