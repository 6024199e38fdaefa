package handler

import (
	"net/http"
	"reflect"

	"fleetadmin/internal/service"
	"fleetadmin/pkg/pagination"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the acting user from what the auth middleware stored.
func actorFrom(c *gin.Context) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Get("userID"); ok {
		actor.ID, _ = v.(string)
	}
	if v, ok := c.Get("username"); ok {
		actor.Username, _ = v.(string)
	}
	if v, ok := c.Get("userRole"); ok {
		actor.Role, _ = v.(string)
	}
	return actor
}

// listRequest reads search, category and optional paging. The category
// parameter may be sent as category, status or type.
func listRequest(c *gin.Context) (service.ListQuery, pagination.Params, bool) {
	q := service.ListQuery{Search: c.Query("search")}
	for _, key := range []string{"category", "status", "type"} {
		if v := c.Query(key); v != "" {
			q.Category = v
			break
		}
	}
	params, paged := pagination.Parse(c)
	if paged {
		q.Page, q.Limit = params.Page, params.Limit
	}
	return q, params, paged
}

// respondList always answers with data as an array.
func respondList(c *gin.Context, data interface{}, total int64, params pagination.Params, paged bool) {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice && v.IsNil() {
		data = reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	if paged {
		c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, data, params.Page, params.Limit, total))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
