package services

import "go.uber.org/zap"

func zapUserID(id int64) zap.Field { return zap.Int64("user_id", id) }
