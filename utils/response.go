package utils

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope: {"success": true,
// "data": ...} or {"success": false, "error": ...}. Conflict responses
// add a "source" field; see the controllers' error mapping.

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
