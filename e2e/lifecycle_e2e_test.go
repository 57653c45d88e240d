package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
)

var _ = Describe("game session lifecycle", func() {
	It("delivers CreateGameSession, activates it, and manages a player session", func() {
		gw := newFakeGateway()
		DeferCleanup(gw.close)

		var started gamelift.GameSession
		startedCh := make(chan struct{}, 1)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gw.url(),
			ProcessID:    "process-1",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		readyErrCh := make(chan error, 1)
		go func() {
			readyErrCh <- client.ProcessReady(gamelift.ProcessParameters{
				Port: 7777,
				OnStartGameSession: func(gs gamelift.GameSession) {
					started = gs
					startedCh <- struct{}{}
				},
			})
		}()
		frame, err := readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(respondOK(conn, frame.Action, frame.RequestID, struct{}{})).To(Succeed())
		Eventually(readyErrCh).Should(Receive(BeNil()))

		Expect(sendEvent(conn, "CreateGameSession", gamelift.GameSession{
			GameSessionID: "gsess-1",
			Name:          "arena-1",
			FleetID:       "fleet-1",
			Port:          7777,
		})).To(Succeed())

		Eventually(startedCh).Should(Receive())
		Expect(started.GameSessionID).To(Equal("gsess-1"))

		id, err := client.GetGameSessionID()
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("gsess-1"))

		activateErrCh := make(chan error, 1)
		go func() { activateErrCh <- client.ActivateGameSession() }()
		frame, err = readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("ActivateGameSession"))
		Expect(respondOK(conn, frame.Action, frame.RequestID, struct{}{})).To(Succeed())
		Eventually(activateErrCh).Should(Receive(BeNil()))

		acceptErrCh := make(chan error, 1)
		go func() { acceptErrCh <- client.AcceptPlayerSession("player-session-1") }()
		frame, err = readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("AcceptPlayerSession"))
		Expect(respondOK(conn, frame.Action, frame.RequestID, struct{}{})).To(Succeed())
		Eventually(acceptErrCh).Should(Receive(BeNil()))
	})

	It("drops CreateGameSession silently when the process never called ProcessReady", func() {
		gw := newFakeGateway()
		DeferCleanup(gw.close)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gw.url(),
			ProcessID:    "process-2",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		Expect(sendEvent(conn, "CreateGameSession", gamelift.GameSession{GameSessionID: "gsess-2"})).To(Succeed())

		// The session id is recorded even though the callback is dropped, so
		// local queries reflect reality immediately.
		Eventually(func() (string, error) { return client.GetGameSessionID() }).Should(Equal("gsess-2"))
	})
})
