package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// fetchJSON fetches and decodes JSON from an absolute route.
//
//nolint:revive // Go doesn't allow generic methods, so the client is passed explicitly.
func fetchJSON[T any](
	c *ClientImpl,
	ctx context.Context,
	route string,
	query url.Values,
) (*FetchJSONResult[T], error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route, http.NoBody)
	if err != nil {
		return nil, err
	}

	if query != nil {
		request.URL.RawQuery = query.Encode()
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return &FetchJSONResult[T]{
			StatusCode: response.StatusCode,
		}, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result *T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return &FetchJSONResult[T]{
			StatusCode: response.StatusCode,
		}, err
	}

	if result == nil {
		return &FetchJSONResult[T]{
			StatusCode: response.StatusCode,
		}, ErrEmptyResponse
	}

	return &FetchJSONResult[T]{
		Data:       result,
		StatusCode: response.StatusCode,
	}, nil
}

// collectPages returns the items of the first page followed by every next page, in order.
//
//nolint:revive // Go doesn't allow generic methods, so the client is passed explicitly.
func collectPages[T any](c *ClientImpl, ctx context.Context, first *Page[T]) ([]T, error) {
	items := append([]T(nil), first.Items...)

	for next := first.Next; next != ""; {
		result, err := fetchJSON[Page[T]](c, ctx, next, nil)
		if err != nil {
			return nil, err
		}

		items = append(items, result.Data.Items...)
		next = result.Data.Next
	}

	first.Next = ""

	return items, nil
}
