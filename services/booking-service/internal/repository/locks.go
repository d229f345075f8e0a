package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const roomLockWait = 5 * time.Second

// InnoDB aborts one side of a lock cycle and times out long waits.
const (
	mysqlDeadlock    = 1213
	mysqlLockTimeout = 1205
)

func roomLockKey(roomID int64) string { return fmt.Sprintf("booking:room:%d", roomID) }

// lockConflict reports lost lock races as ErrRoomTaken so callers can reselect.
func lockConflict(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlDeadlock || me.Number == mysqlLockTimeout) {
		return ErrRoomTaken
	}
	return err
}
