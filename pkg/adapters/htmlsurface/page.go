package htmlsurface

// DemoPage is the built-in page recorded when no URL or HTML is given.
// It animates a clock, a counter and a progress bar off requestAnimationFrame.
const DemoPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; height: 100%; background: #1e222a; color: #dcdfe4;
    font-family: sans-serif; overflow: hidden; }
  header { height: 10%; background: #2b313c; display: flex; align-items: center;
    justify-content: space-between; padding: 0 2%; font-size: 4vh; }
  main { display: flex; gap: 2%; padding: 2%; height: 70%; }
  .panel { background: #282c34; border-radius: 1vh; flex: 1; position: relative; }
  .panel.side { flex: 0 0 30%; }
  #box { position: absolute; top: 40%; width: 12vh; height: 12vh;
    background: #61afef; border-radius: 1vh; }
  #counter { font-size: 10vh; text-align: center; margin-top: 20%; }
  footer { position: absolute; left: 2%; right: 2%; bottom: 4%; height: 3vh;
    background: #2b313c; border-radius: 1.5vh; }
  #bar { height: 100%; width: 0; background: #61afef; border-radius: 1.5vh; }
</style>
</head>
<body>
<header><span>uirecord</span><span id="clock"></span></header>
<main>
  <div class="panel side"><div id="counter">0</div></div>
  <div class="panel"><div id="box"></div></div>
</main>
<footer><div id="bar"></div></footer>
<script>
  const start = performance.now();
  let n = 0;
  function tick(now) {
    const t = (now - start) / 1000;
    n++;
    document.getElementById('clock').textContent = t.toFixed(2) + 's';
    document.getElementById('counter').textContent = n;
    document.getElementById('box').style.left = ((t * 20) % 85) + '%';
    document.getElementById('bar').style.width = Math.min(100, t * 100 / 12) + '%';
    requestAnimationFrame(tick);
  }
  requestAnimationFrame(tick);
</script>
</body>
</html>
`
