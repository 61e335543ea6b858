package signal

func (ctl *Controller) handlePing(conn *wsConn) {
	ctl.sendJSON(conn, newPong())
}
