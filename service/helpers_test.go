package service_test

import (
	"fmt"
	"testing"

	"wanderlog/dao"
	"wanderlog/internal/auth"
	"wanderlog/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，避免 :memory: 在连接池下各连各库
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Note{}, &model.NoteMedia{}))
	return db
}

var seedSeq uint64

func seedUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	seedSeq++
	user := &model.User{
		Username: username,
		Password: "x",
		Nickname: username + "-nick",
		Mobile:   fmt.Sprintf("139%08d", seedSeq),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func principalFor(u *model.User) auth.Principal {
	return auth.Principal{ID: u.ID, Role: u.Role}
}

func noteDAOFor(db *gorm.DB) *dao.NoteDAO {
	return dao.NewNoteDAO(db)
}
