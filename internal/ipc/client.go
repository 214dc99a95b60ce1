package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Stop requests daemon shutdown.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Curator.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Curator.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichStart creates and launches a new enrichment job.
func (c *Client) EnrichStart(req EnrichStartRequest) (*EnrichStartResponse, error) {
	var resp EnrichStartResponse
	if err := c.client.Call("Curator.EnrichStart", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichStatus fetches one job with derived progress fields.
func (c *Client) EnrichStatus(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.client.Call("Curator.EnrichStatus", JobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichPause requests a cooperative pause.
func (c *Client) EnrichPause(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.client.Call("Curator.EnrichPause", JobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichResume lifts a pause.
func (c *Client) EnrichResume(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.client.Call("Curator.EnrichResume", JobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichCancel requests a cooperative cancel.
func (c *Client) EnrichCancel(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.client.Call("Curator.EnrichCancel", JobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichDelete removes a terminal job from history.
func (c *Client) EnrichDelete(id string) (*JobDeleteResponse, error) {
	var resp JobDeleteResponse
	if err := c.client.Call("Curator.EnrichDelete", JobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichList retrieves the job history, newest first.
func (c *Client) EnrichList() (*JobListResponse, error) {
	var resp JobListResponse
	if err := c.client.Call("Curator.EnrichList", JobListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichOnce runs the full pipeline against one item and waits for it.
func (c *Client) EnrichOnce(itemID int64) (*EnrichOnceResponse, error) {
	var resp EnrichOnceResponse
	if err := c.client.Call("Curator.EnrichOnce", EnrichOnceRequest{ItemID: itemID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats retrieves enrichment coverage statistics.
func (c *Client) Stats() (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.client.Call("Curator.Stats", StatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemList retrieves library entries.
func (c *Client) ItemList(req ItemListRequest) (*ItemListResponse, error) {
	var resp ItemListResponse
	if err := c.client.Call("Curator.ItemList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemAdd registers a new library entry.
func (c *Client) ItemAdd(req ItemAddRequest) (*ItemAddResponse, error) {
	var resp ItemAddResponse
	if err := c.client.Call("Curator.ItemAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemGet retrieves one library entry including its transcript.
func (c *Client) ItemGet(id int64) (*ItemGetResponse, error) {
	var resp ItemGetResponse
	if err := c.client.Call("Curator.ItemGet", ItemGetRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
