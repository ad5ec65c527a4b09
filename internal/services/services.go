// Package services groups the CRUD operations of every BookNet entity. Each
// service validates its input first and only then calls the backend; a
// validation failure never produces network traffic. Services keep no
// mutable state and are built once per process by NewRegistry.
package services

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

// Requester is the part of the backend client the services depend on.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// Options tune service behaviour that is configurable per deployment.
type Options struct {
	GenreHierarchy HierarchyCheck
}

// Registry holds the process-wide service instances.
type Registry struct {
	Auth    *AuthService
	Authors *AuthorService
	Books   *BookService
	Genres  *GenreService
	Tags    *TagService
	Users   *UserService
}

// NewRegistry builds every service on top of one backend client.
func NewRegistry(api Requester, opts Options) *Registry {
	return &Registry{
		Auth:    NewAuthService(api),
		Authors: NewAuthorService(api),
		Books:   NewBookService(api),
		Genres:  NewGenreService(api, opts.GenreHierarchy),
		Tags:    NewTagService(api),
		Users:   NewUserService(api),
	}
}

// listQuery validates pagination and builds the query string. Only the
// filters named in allowed are forwarded; blank values are dropped.
func listQuery(params entities.ListParams, allowed ...string) (url.Values, error) {
	params, err := validation.Pagination(params)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("offset", strconv.Itoa(params.Offset))
	for _, key := range allowed {
		if v := strings.TrimSpace(params.Filters[key]); v != "" {
			q.Set(key, v)
		}
	}
	return q, nil
}

// searchQuery is listQuery plus a required search term.
func searchQuery(term string, params entities.ListParams, allowed ...string) (url.Values, error) {
	if validation.IsBlank(term) {
		return nil, validation.New("q", validation.MsgSearchTerm)
	}
	q, err := listQuery(params, allowed...)
	if err != nil {
		return nil, err
	}
	q.Set("q", strings.TrimSpace(term))
	return q, nil
}

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(strings.TrimSpace(id))
}

func requireID(id, message string) error {
	return validation.Required("id", id, message)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func trimIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.TrimSpace(id)
	}
	return out
}

func trimIDsPtr(ids *[]string) *[]string {
	if ids == nil {
		return nil
	}
	out := trimIDs(*ids)
	return &out
}

// collectAll walks every page of a list endpoint.
func collectAll[T any](ctx context.Context, params entities.ListParams, fetch func(context.Context, entities.ListParams) (*entities.Page[T], error)) ([]T, error) {
	if params.Limit == 0 {
		params.Limit = entities.MaxLimit
	}

	var all []T
	for {
		page, err := fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		params.Offset += len(page.Items)
		if len(page.Items) == 0 || (!page.HasMore && params.Offset >= page.Total) {
			return all, nil
		}
	}
}
