package config

import "github.com/dgervalla-ship-it/viamentor-sub004/pkg/dbmetrics"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
