// Package sshclient provides the SSH-backed session for the
// remote-shell transport: quoted command execution plus file upload
// over the scp wire protocol.
package sshclient

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"playlist-sync/internal/remote"
)

const scpAckTimeout = 10 * time.Second

// Client is a persistent SSH connection implementing remote.Session.
// Each command or upload runs on a fresh ssh.Session multiplexed over
// the one TCP connection.
type Client struct {
	client *ssh.Client
	config *ssh.ClientConfig
	host   string
	port   string
}

func NewClient(username, privateKeyPath, host, port string) (*Client, error) {
	key, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %v", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %v", err)
	}

	return &Client{
		config: &ssh.ClientConfig{
			User:            username,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		},
		host: host,
		port: port,
	}, nil
}

// Connect establishes the SSH connection.
func (c *Client) Connect() error {
	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%s", c.host, c.port), c.config)
	if err != nil {
		return fmt.Errorf("failed to dial %s:%s: %v", c.host, c.port, err)
	}
	c.client = client
	return nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Run executes one command line on the remote host and returns its
// stdout.
func (c *Client) Run(cmd string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("ssh client not connected")
	}
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %v", err)
	}
	defer session.Close()

	var stderr strings.Builder
	session.Stderr = &stderr
	out, err := session.Output(cmd)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("command failed: %v: %s", err, msg)
		}
		return "", fmt.Errorf("command failed: %v", err)
	}
	return string(out), nil
}

// Push uploads a local file to an absolute remote path by driving
// `scp -t` over stdin/stdout. The caller is responsible for creating
// the destination directory first.
func (c *Client) Push(localPath, remotePath string) error {
	if c.client == nil {
		return fmt.Errorf("ssh client not connected")
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %v", err)
	}
	defer localFile.Close()

	stat, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %v", err)
	}

	session, err := c.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %v", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %v", err)
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %v", err)
	}

	// scp -t receives into the target directory; the filename rides in
	// the protocol header below.
	if err := session.Start("scp -t " + remote.QuoteArgument(path.Dir(remotePath))); err != nil {
		return fmt.Errorf("failed to start scp on remote: %v", err)
	}

	readAck := func() error {
		buf := make([]byte, 1)
		ch := make(chan error, 1)
		go func() {
			if _, err := stdout.Read(buf); err != nil {
				ch <- fmt.Errorf("failed to read scp ack: %v", err)
				return
			}
			switch buf[0] {
			case 0:
				ch <- nil
			case 1, 2:
				msg := make([]byte, 1024)
				n, _ := stderr.Read(msg)
				ch <- fmt.Errorf("scp remote error: %s", strings.TrimSpace(string(msg[:n])))
			default:
				ch <- fmt.Errorf("unknown scp ack: %v", buf[0])
			}
		}()
		select {
		case err := <-ch:
			return err
		case <-time.After(scpAckTimeout):
			return fmt.Errorf("timeout waiting for scp ack")
		}
	}

	fail := func(err error) error {
		stdin.Close()
		session.Wait()
		return err
	}

	if err := readAck(); err != nil {
		return fail(err)
	}

	// File header: C<mode> <size> <filename>\n
	fmt.Fprintf(stdin, "C%04o %d %s\n", stat.Mode().Perm(), stat.Size(), path.Base(remotePath))
	if err := readAck(); err != nil {
		return fail(err)
	}

	if _, err := io.Copy(stdin, localFile); err != nil {
		return fail(fmt.Errorf("failed to send file data: %v", err))
	}
	if _, err := stdin.Write([]byte{0}); err != nil {
		return fail(fmt.Errorf("failed to send scp terminator: %v", err))
	}
	if err := readAck(); err != nil {
		return fail(err)
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("remote scp command failed: %v", err)
	}
	return nil
}
