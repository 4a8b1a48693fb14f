package history

import (
	"context"
	"fmt"
)

// Record saves run entry
func (store *Store) Record(ctx context.Context, entry *Entry) error {
	_, err := store.db.NamedExecContext(ctx, `
insert into template_run(
  id,
  guild_id,
  user_id,
  kind,
  name,
  summary,
  failures,
  started_at,
  finished_at
) values (
  :id,
  :guild_id,
  :user_id,
  :kind,
  :name,
  :summary,
  :failures,
  :started_at,
  :finished_at
)
`, entry)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return nil
}

// List returns latest runs of guild, newest first
func (store *Store) List(ctx context.Context, guildID string, limit int) (entries []Entry, err error) {
	err = store.db.SelectContext(ctx, &entries, `
select
  id,
  guild_id,
  user_id,
  kind,
  name,
  summary,
  failures,
  started_at,
  finished_at
from template_run
where
  guild_id = $1
order by started_at desc limit $2
`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	return
}
