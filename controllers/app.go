package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/config"
	"github.com/princinho/storefront-backend/utils"
	"github.com/princinho/storefront-backend/worker"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// App carries the process-wide dependencies every handler closes over:
// immutable config, the structured logger, the background worker and the
// mail sender. Collections are opened per request via database.OpenCollection.
type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Worker *worker.Worker
	Mailer *utils.Mailer
}

// fail writes the error envelope every /api endpoint shares.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (bson.ObjectID, bool) {
	val, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(val.(string))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}
