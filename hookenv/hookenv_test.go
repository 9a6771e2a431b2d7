// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv_test

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/neutron-contrail/hookenv"
)

const charmDir = "/var/lib/juju/agents/unit-neutron-contrail-0/charm"

type contextSuite struct {
	testing.IsolationSuite

	runner *MockCommandRunner
}

var _ = gc.Suite(&contextSuite{})

func (s *contextSuite) setup(c *gc.C) (*gomock.Controller, *hookenv.Context) {
	ctrl := gomock.NewController(c)
	s.runner = NewMockCommandRunner(ctrl)
	ctx := hookenv.NewContext(s.runner, hookenv.Environment{
		UnitName: "neutron-contrail/0",
		CharmDir: charmDir,
	})
	return ctrl, ctx
}

func (s *contextSuite) expect(stdout string, args ...string) *gomock.Call {
	return s.runner.EXPECT().RunCommands(exec.RunParams{
		Commands:   shellquote.Join(args...),
		WorkingDir: charmDir,
	}).Return(&exec.ExecResponse{Stdout: []byte(stdout)}, nil)
}

func (s *contextSuite) TestRelationIds(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect(`["contrail-api:7","contrail-api:3"]`, "relation-ids", "--format=json", "contrail-api")

	ids, err := ctx.RelationIds("contrail-api")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ids, jc.DeepEquals, []string{"contrail-api:3", "contrail-api:7"})
}

func (s *contextSuite) TestRelatedUnits(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect(`["contrail-configuration/1","contrail-configuration/0"]`, "relation-list", "--format=json", "-r", "contrail-api:3")

	units, err := ctx.RelatedUnits("contrail-api:3")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(units, jc.DeepEquals, []string{"contrail-configuration/0", "contrail-configuration/1"})
}

func (s *contextSuite) TestPeerUnits(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	gomock.InOrder(
		s.expect(`["cluster:1","cluster:2"]`, "relation-ids", "--format=json", "cluster"),
		s.expect(`["neutron-contrail/1"]`, "relation-list", "--format=json", "-r", "cluster:1"),
		s.expect(`["neutron-contrail/1","neutron-contrail/2"]`, "relation-list", "--format=json", "-r", "cluster:2"),
	)

	units, err := ctx.PeerUnits("cluster")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(units.SortedValues(), jc.DeepEquals, []string{"neutron-contrail/1", "neutron-contrail/2"})
}

func (s *contextSuite) TestRelationGet(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect(`"8082"`+"\n", "relation-get", "--format=json", "-r", "contrail-api:3", "port", "contrail-configuration/0")

	port, err := ctx.RelationGet("port", "contrail-configuration/0", "contrail-api:3")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(port, gc.Equals, "8082")
}

func (s *contextSuite) TestRelationGetCurrentHookUnset(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("null\n", "relation-get", "--format=json", "port")

	port, err := ctx.RelationGet("port", "", "")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(port, gc.Equals, "")
}

func (s *contextSuite) TestRelationSet(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("", "relation-set", "-r", "neutron-plugin:5", "metadata-shared-secret=", "subordinate_configuration={}")

	err := ctx.RelationSet("neutron-plugin:5", map[string]string{
		"subordinate_configuration": "{}",
		"metadata-shared-secret":    "",
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *contextSuite) TestToolFailure(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.runner.EXPECT().RunCommands(gomock.Any()).Return(&exec.ExecResponse{
		Code:   2,
		Stderr: []byte("ERROR no relation id specified\n"),
	}, nil)

	_, err := ctx.RelationGet("port", "", "")
	c.Assert(err, gc.ErrorMatches, `relation-get failed \(2\): ERROR no relation id specified`)
}

func (s *contextSuite) TestRunnerError(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.runner.EXPECT().RunCommands(gomock.Any()).Return(nil, errors.New("fork failed"))

	_, err := ctx.RelationIds("contrail-api")
	c.Assert(err, gc.ErrorMatches, `running relation-ids: fork failed`)
}

func (s *contextSuite) TestIsLeader(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("true\n", "is-leader", "--format=json")

	leader, err := ctx.IsLeader()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(leader, jc.IsTrue)
}

func (s *contextSuite) TestLeaderGet(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	gomock.InOrder(
		s.expect(`"true"`, "leader-get", "--format=json", "local-metadata-provisioned"),
		s.expect("null", "leader-get", "--format=json", "local-metadata-provisioned"),
	)

	value, err := ctx.LeaderGet("local-metadata-provisioned")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(value, gc.Equals, "true")

	value, err = ctx.LeaderGet("local-metadata-provisioned")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(value, gc.Equals, "")
}

func (s *contextSuite) TestLeaderSet(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	gomock.InOrder(
		s.expect("true", "is-leader", "--format=json"),
		s.expect("", "leader-set", "local-metadata-provisioned=false"),
	)

	err := ctx.LeaderSet(map[string]string{"local-metadata-provisioned": "false"})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *contextSuite) TestLeaderSetNotLeader(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("false", "is-leader", "--format=json")

	err := ctx.LeaderSet(map[string]string{"local-metadata-provisioned": "true"})
	c.Assert(err, jc.Satisfies, errors.IsNotSupported)
}

func (s *contextSuite) TestConfigGetAll(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect(`{"contrail-api-ip":null,"local-metadata-server":true,"contrail-api-port":8082}`, "config-get", "--format=json", "--all")

	config, err := ctx.ConfigGetAll()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(config, jc.DeepEquals, map[string]interface{}{
		"contrail-api-ip":       nil,
		"local-metadata-server": true,
		"contrail-api-port":     float64(8082),
	})
}

func (s *contextSuite) TestStatusSet(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("", "status-set", "blocked", "Missing relations: identity")

	err := ctx.StatusSet(hookenv.Blocked, "Missing relations: identity")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *contextSuite) TestLogWriter(c *gc.C) {
	ctrl, ctx := s.setup(c)
	defer ctrl.Finish()

	s.expect("", "juju-log", "-l", "WARNING", "neutroncontrail.test: vhost0 has no address")

	w := hookenv.NewLogWriter(ctx, loggo.INFO)
	w.Write(loggo.Entry{Level: loggo.DEBUG, Module: "neutroncontrail.test", Message: "ignored"})
	w.Write(loggo.Entry{Level: loggo.WARNING, Module: "neutroncontrail.test", Message: "vhost0 has no address"})
}
