package repository

const schema = `
CREATE TABLE IF NOT EXISTS daily_lineups (
    game_pk       INTEGER NOT NULL,
    game_date     DATE    NOT NULL,
    player_id     INTEGER NOT NULL,
    player_name   TEXT    NOT NULL,
    team          TEXT    NOT NULL,
    batting_order INTEGER NOT NULL CHECK (batting_order BETWEEN 1 AND 9),
    pitcher_hand  TEXT    NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (game_pk, player_id)
);

CREATE INDEX IF NOT EXISTS idx_daily_lineups_game_date ON daily_lineups(game_date);
CREATE INDEX IF NOT EXISTS idx_daily_lineups_player ON daily_lineups(player_id);
`
