package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
)

type fakeStatuses map[string]backlite.TaskStatus

func (f fakeStatuses) Status(_ context.Context, id string) (backlite.TaskStatus, error) {
	if id == "roto" {
		var unknown backlite.TaskStatus
		return unknown, errors.New("no such table: backlite_tasks")
	}
	if s, ok := f[id]; ok {
		return s, nil
	}
	return backlite.TaskStatusNotFound, nil
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	router := gin.New()
	router.GET("/api/tasks/:id", NewTasksController(fakeStatuses{
		"t1": backlite.TaskStatusPending,
		"t2": backlite.TaskStatusSuccess,
	}).GetTaskStatus)

	w := performJSON(t, router, http.MethodGet, "/api/tasks/t1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"t1","status":"pending"}`, w.Body.String())

	w = performJSON(t, router, http.MethodGet, "/api/tasks/t2", "")
	assert.JSONEq(t, `{"id":"t2","status":"success"}`, w.Body.String())

	w = performJSON(t, router, http.MethodGet, "/api/tasks/t3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgTaskNotFound, decodeError(t, w).Error)

	w = performJSON(t, router, http.MethodGet, "/api/tasks/roto", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
