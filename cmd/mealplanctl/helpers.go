package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

// checkStatus turns non-2xx responses into errors carrying the server body.
func checkStatus(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doGet(path string) ([]byte, error) {
	return checkStatus(newClient().R().Get(path))
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	return checkStatus(newClient().R().SetBody(payload).Post(path))
}

func doPutJSON(path string, payload interface{}) ([]byte, error) {
	return checkStatus(newClient().R().SetBody(payload).Put(path))
}

func doDelete(path string) error {
	_, err := checkStatus(newClient().R().Delete(path))
	return err
}
